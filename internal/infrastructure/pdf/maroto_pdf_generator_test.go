package pdf

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/albaranes-api/internal/application/deliverynote"
	"github.com/jhoicas/albaranes-api/internal/domain/entity"
)

func sampleSnapshot() deliverynote.Snapshot {
	signedAt := time.Date(2024, 5, 2, 10, 30, 0, 0, time.UTC)
	return deliverynote.Snapshot{
		Note: &entity.DeliveryNote{
			ID:        "b1b9d3f0-0000-0000-0000-000000000001",
			Number:    "ALB-001",
			IssueDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			Status:    entity.NoteSigned,
			SignedAt:  &signedAt,
			Lines: []entity.DeliveryNoteLine{
				{Description: "Hormigón", Quantity: decimal.NewFromInt(10), Unit: "m3", UnitPrice: decimal.NewFromInt(50)},
				{Description: "Transporte", Quantity: decimal.NewFromInt(1), Unit: entity.DefaultLineUnit, UnitPrice: decimal.NewFromInt(120)},
			},
			Observations: "Entregar por la mañana",
		},
		Company: entity.Company{Name: "Obras SL", TaxID: "B12345678"},
		Client:  &entity.Client{Name: "Cliente Uno", Address: entity.Address{City: "Madrid", Country: entity.DefaultCountry}},
		Project: &entity.Project{Name: "Reforma"},
	}
}

func TestRenderDeliveryNote_GeneraPDF(t *testing.T) {
	g := NewMarotoPDFGenerator()

	out, err := g.RenderDeliveryNote(context.Background(), sampleSnapshot())
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe comenzar con la cabecera PDF")
}

func TestRenderDeliveryNote_ConFirma(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for x := 0; x < 40; x++ {
		img.Set(x, 10, color.Black)
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	snap := sampleSnapshot()
	snap.Signature = buf.Bytes()
	snap.SignatureExt = "png"

	out, err := NewMarotoPDFGenerator().RenderDeliveryNote(context.Background(), snap)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderDeliveryNote_SinClienteNiProyecto(t *testing.T) {
	g := NewMarotoPDFGenerator()
	snap := sampleSnapshot()
	snap.Client = nil
	snap.Project = nil
	snap.Note.Number = ""
	snap.Note.SignedAt = nil

	out, err := g.RenderDeliveryNote(context.Background(), snap)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderDeliveryNote_SinAlbaran(t *testing.T) {
	_, err := NewMarotoPDFGenerator().RenderDeliveryNote(context.Background(), deliverynote.Snapshot{})
	assert.Error(t, err)
}

func TestImageExtension(t *testing.T) {
	_, ok := imageExtension("PNG")
	assert.True(t, ok)
	_, ok = imageExtension("gif")
	assert.False(t, ok)
}

func TestFormatAddress(t *testing.T) {
	assert.Equal(t, dash, formatAddress(entity.Address{}))
	assert.Equal(t, "Gran Vía 1, 28013, Madrid", formatAddress(entity.Address{Street: "Gran Vía 1", PostalCode: "28013", City: "Madrid"}))
}
