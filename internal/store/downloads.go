package store

import (
	"context"
	"fmt"

	"github.com/ddshop/reports-manager/internal/dependency"
	"github.com/ddshop/reports-manager/internal/entity"
)

type downloadsStore struct {
	*MYSQLStore
}

// Downloads returns an object implementing Downloads interface
func (ms *MYSQLStore) Downloads() dependency.Downloads {
	return &downloadsStore{
		MYSQLStore: ms,
	}
}

// LogFileDownload records one fulfilled file download.
func (ms *MYSQLStore) LogFileDownload(ctx context.Context, log *entity.FileDownloadLog) (int, error) {
	if log.ProductID == 0 || log.FileID == 0 {
		return 0, fmt.Errorf("file download log must reference a product and a file")
	}
	id, err := ExecNamedLastId(ctx, ms.DB(), `
	INSERT INTO file_download_logs
		(product_id, file_id, order_id, price_id, customer_id, date_created)
	VALUES
		(:productId, :fileId, :orderId, :priceId, :customerId, :dateCreated)`,
		map[string]any{
			"productId":   log.ProductID,
			"fileId":      log.FileID,
			"orderId":     log.OrderID,
			"priceId":     log.PriceID,
			"customerId":  log.CustomerID,
			"dateCreated": ms.Now(),
		})
	if err != nil {
		return 0, fmt.Errorf("can't log file download: %w", err)
	}
	return id, nil
}
