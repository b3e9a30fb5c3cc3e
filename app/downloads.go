package app

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/ddshop/reports-manager/internal/entity"
	"github.com/go-chi/render"
)

type FileDownloadRequest struct {
	ProductID  int `json:"productId"`
	FileID     int `json:"fileId"`
	OrderID    int `json:"orderId,omitempty"`
	PriceID    int `json:"priceId,omitempty"`
	CustomerID int `json:"customerId,omitempty"`
}

func (fr *FileDownloadRequest) Bind(r *http.Request) error {
	if fr.ProductID == 0 || fr.FileID == 0 {
		return fmt.Errorf("productId and fileId are required")
	}
	return nil
}

// logFileDownload records a fulfilled file download so the download
// statistics can count it.
func (s *Server) logFileDownload(w http.ResponseWriter, r *http.Request) {
	fr := &FileDownloadRequest{}
	if err := render.Bind(r, fr); err != nil {
		_ = render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	log := &entity.FileDownloadLog{
		ProductID:  fr.ProductID,
		FileID:     fr.FileID,
		OrderID:    fr.OrderID,
		CustomerID: fr.CustomerID,
	}
	if fr.PriceID != 0 {
		log.PriceID = sql.NullInt32{Int32: int32(fr.PriceID), Valid: true}
	}

	id, err := s.db.Downloads().LogFileDownload(r.Context(), log)
	if err != nil {
		_ = render.Render(w, r, ErrInternalServerError(err))
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]int{"id": id})
}
