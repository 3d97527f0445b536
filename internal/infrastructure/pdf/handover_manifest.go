// Package pdf genera el manifiesto de entrega del mensajero (kurye teslim
// tutanağı): un PDF con el código de barras Code 128 de cada envío para que
// el depósito escanee la recepción.
package pdf

import (
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/barcode"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/ozonpanel/backend/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ManifestGenerator genera manifiestos de entrega.
type ManifestGenerator struct{}

// NewManifestGenerator construye el generador.
func NewManifestGenerator() *ManifestGenerator {
	return &ManifestGenerator{}
}

// Generate produce el PDF del manifiesto: encabezado con mensajero y fecha,
// luego una fila por envío con su código de barras Code 128.
func (g *ManifestGenerator) Generate(courierName string, handovers []*entity.CourierHandover) ([]byte, error) {
	if len(handovers) == 0 {
		return nil, fmt.Errorf("pdf: manifiesto sin envíos")
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 10}).
		WithLeftMargin(15).
		WithRightMargin(15).
		Build()

	m := maroto.New(cfg)

	m.AddRows(row.New(12).Add(
		col.New(8).Add(
			text.New("KURYE TESLİM TUTANAĞI", props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary,
			}),
			text.New("Kurye: "+courierName, props.Text{Size: 9, Top: 7, Color: colorGray}),
		),
		col.New(4).Add(
			text.New(time.Now().Format("02.01.2006 15:04"), props.Text{
				Size: 9, Align: align.Right, Top: 2,
			}),
			text.New(fmt.Sprintf("Toplam: %d paket", len(handovers)), props.Text{
				Size: 9, Align: align.Right, Top: 7,
			}),
		),
	))
	m.AddRows(line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.5}))

	for i, h := range handovers {
		m.AddRows(row.New(22).Add(
			col.New(1).Add(
				text.New(fmt.Sprintf("%d", i+1), props.Text{Size: 9, Top: 8, Color: colorGray}),
			),
			col.New(5).Add(
				text.New(h.PostingNumber, props.Text{Style: fontstyle.Bold, Size: 11, Top: 4}),
				text.New("Tarama: "+h.ScannedAt.Format("02.01.2006 15:04"), props.Text{
					Size: 8, Top: 11, Color: colorGray,
				}),
			),
			col.New(6).Add(
				code.NewBar(h.PostingNumber, props.Barcode{
					Type:    barcode.Code128,
					Percent: 90,
					Center:  true,
				}),
			),
		))
		m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.2}))
	}

	m.AddRows(row.New(20).Add(
		col.New(6).Add(
			text.New("Teslim Eden (Kurye)", props.Text{Size: 9, Top: 12, Color: colorGray}),
		),
		col.New(6).Add(
			text.New("Teslim Alan (Depo)", props.Text{Size: 9, Top: 12, Color: colorGray}),
		),
	))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar manifiesto: %w", err)
	}
	return doc.GetBytes(), nil
}
