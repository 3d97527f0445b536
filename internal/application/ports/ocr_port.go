package ports

import "context"

// Tipos de documento que el OCR sabe procesar.
const (
	DocTypePurchase = "alis"  // factura de compra
	DocTypeSale     = "satis" // factura de venta
	DocTypeETGB     = "etgb"  // declaración de aduana
)

// OCRService puerto de salida hacia el servicio de extracción de campos
// (Gemini u otro adaptador). Caja negra: recibe la URL del PDF y el tipo de
// documento, devuelve un mapa plano campo -> valor extraído. Un mapa vacío
// significa "sin campos utilizables" (skipped, no error).
// El contexto debe llevar timeout: es una llamada externa.
type OCRService interface {
	ExtractFields(ctx context.Context, pdfURL, docType string) (map[string]string, error)
}
