package documents

import (
	"context"
	"errors"
	"strings"

	"github.com/ozonpanel/backend/internal/application/dto"
	"github.com/ozonpanel/backend/internal/domain"
)

// ImportRow fila ya parseada de la planilla de import masivo. Line es la fila
// original (1-based, con encabezado) para reportar errores ubicables.
type ImportRow struct {
	Line int
	dto.UpsertDocumentRequest
}

// Import vuelca un lote de filas sobre los documentos. Cada fila es
// independiente: un error (posting vacío, factura duplicada, fallo de
// persistencia) se reporta por fila y el import continúa. La guarda de
// duplicados aplica igual que en el alta manual: el import nunca fuerza.
func (uc *UseCase) Import(ctx context.Context, rows []ImportRow) (*dto.BulkImportResult, error) {
	res := &dto.BulkImportResult{}
	for _, row := range rows {
		posting := strings.TrimSpace(row.PostingNumber)
		if posting == "" {
			res.Skipped++
			res.Errors = append(res.Errors, dto.BulkImportError{Row: row.Line, Reason: "número de envío vacío"})
			continue
		}
		row.ForceDuplicate = false
		if _, err := uc.Upsert(ctx, row.UpsertDocumentRequest); err != nil {
			res.Skipped++
			reason := err.Error()
			if errors.Is(err, domain.ErrDuplicateInvoice) {
				reason = "factura de venta duplicada"
			}
			res.Errors = append(res.Errors, dto.BulkImportError{Row: row.Line, Posting: posting, Reason: reason})
			continue
		}
		res.Imported++
	}
	return res, nil
}
