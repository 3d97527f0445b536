package reconcile

import "strings"

// InvoiceRef asignación existente número de factura -> pedido.
type InvoiceRef struct {
	PostingNumber string
	InvoiceNumber string
}

// DuplicateResult resultado de la guarda de duplicados.
type DuplicateResult struct {
	IsDuplicate           bool
	ExistingPostingNumber string
}

// CheckDuplicate busca si invoiceNumber ya está asignado a un pedido distinto
// de targetPosting. El match es por igualdad exacta sensible a mayúsculas,
// recortando solo espacios circundantes: la semántica de matching por string
// del esquema original se preserva tal cual. Consulta pura, sin efectos; el
// caller debe tratar un positivo como advertencia bloqueante que requiere
// confirmación explícita antes de persistir.
func CheckDuplicate(invoiceNumber, targetPosting string, refs []InvoiceRef) DuplicateResult {
	want := strings.TrimSpace(invoiceNumber)
	if want == "" {
		return DuplicateResult{}
	}
	for _, ref := range refs {
		if ref.PostingNumber == targetPosting {
			continue
		}
		if strings.TrimSpace(ref.InvoiceNumber) == want {
			return DuplicateResult{IsDuplicate: true, ExistingPostingNumber: ref.PostingNumber}
		}
	}
	return DuplicateResult{}
}
