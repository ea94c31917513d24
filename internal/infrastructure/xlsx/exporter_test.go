package xlsx_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/obras-api/internal/application/ports"
	"github.com/jhoicas/obras-api/internal/domain/entity"
	"github.com/jhoicas/obras-api/internal/infrastructure/xlsx"
)

func TestExportRequests_HojasYFilas(t *testing.T) {
	docs := []ports.RequestDocument{
		{
			Request:     &entity.MaterialRequest{ID: "r1", RequestType: entity.RequestTypeSupplier, CurrentStage: entity.StageOrdered, Status: entity.RequestStatusApproved, CreatedAt: time.Now()},
			ProjectName: "Torre Norte",
			Lines: []ports.RequestDocumentLine{
				{MaterialName: "Cemento", Requested: decimal.NewFromInt(10), Pending: decimal.NewFromInt(10)},
				{MaterialName: "Arena", Requested: decimal.RequireFromString("2.5"), Pending: decimal.RequireFromString("2.5")},
			},
		},
		{
			Request:     &entity.MaterialRequest{ID: "r2", RequestType: entity.RequestTypeMainInventory, CurrentStage: entity.StageRequested, CreatedAt: time.Now()},
			ProjectName: "Bodega Sur",
		},
	}

	out, err := xlsx.NewExporter().ExportRequests(context.Background(), docs)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	reqs, err := f.GetRows(xlsx.SheetRequests)
	require.NoError(t, err)
	require.Len(t, reqs, 3, "encabezado + 2 solicitudes")
	assert.Equal(t, "ID", reqs[0][0])
	assert.Equal(t, "r1", reqs[1][0])
	assert.Equal(t, entity.StageRequested, reqs[2][5])

	lines, err := f.GetRows(xlsx.SheetLines)
	require.NoError(t, err)
	require.Len(t, lines, 3, "encabezado + 2 líneas")
	assert.Equal(t, "Arena", lines[2][2])
	assert.Equal(t, "2.5", lines[2][4])
}

func TestExportRequests_SinSolicitudes(t *testing.T) {
	out, err := xlsx.NewExporter().ExportRequests(context.Background(), nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows(xlsx.SheetRequests)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "solo encabezado")
}
