package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func rosterDataset() Dataset {
	return Dataset{
		Headers: []string{"student_id", "name", "status"},
		Rows: []map[string]string{
			{"student_id": "STU-001", "name": "Aline Uwase", "status": "active"},
			{"student_id": "STU-002", "name": "Eric Mugisha", "status": "inactive"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(rosterDataset())
	require.NoError(t, err)

	expected := "student_id,name,status\n" +
		"STU-001,Aline Uwase,active\n" +
		"STU-002,Eric Mugisha,inactive\n"
	assert.Equal(t, expected, string(out))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestCSVExporterFillsMissingCells(t *testing.T) {
	out, err := NewCSVExporter().Render(Dataset{
		Headers: []string{"a", "b"},
		Rows:    []map[string]string{{"a": "1"}},
	})
	require.NoError(t, err)
	assert.Contains(t, string(out), "1,\n")
}

func TestExcelExporterRender(t *testing.T) {
	out, err := NewExcelExporter().Render(rosterDataset(), "Roster")
	require.NoError(t, err)

	book, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows("Roster")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"student_id", "name", "status"}, rows[0])
	assert.Equal(t, "Eric Mugisha", rows[2][1])
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(rosterDataset(), "Class Roster")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestPDFExporterRenderReceipt(t *testing.T) {
	receipt := Receipt{
		Title:    "Payment Receipt",
		Subtitle: "N1A",
		Fields: [][2]string{
			{"Student", "Aline Uwase"},
			{"Method", "Mobile Money"},
		},
		Lines: Dataset{
			Headers: []string{"item", "amount"},
			Rows:    []map[string]string{{"item": "Tuition", "amount": "RWF 150,000"}},
		},
		Total: "RWF 150,000",
	}
	out, err := NewPDFExporter().RenderReceipt(receipt)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
