package Controllers

import (
	"net/http"
	"os"
	"testing"
	"time"

	"MediDesk/Models"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sheetCells(t *testing.T, path, sheet string) []string {
	t.Helper()
	file, err := excelize.OpenFile(path)
	require.NoError(t, err)

	var cells []string
	for _, row := range file.GetRows(sheet) {
		cells = append(cells, row...)
	}
	return cells
}

func TestExportOPDRegisterScopedToHospital(t *testing.T) {
	setupTestDB(t)
	t.Cleanup(func() { os.Remove("./OPDRegister.xlsx") })

	hospitalA := Models.Hospital{Name: "Hospital A " + t.Name()}
	require.NoError(t, Models.DB.Create(&hospitalA).Error)
	hospitalB := Models.Hospital{Name: "Hospital B " + t.Name()}
	require.NoError(t, Models.DB.Create(&hospitalB).Error)

	visits := []Models.OPDRegistration{
		{PatientName: "Asha Patel", UHID: "MD-2026-100001", VisitDate: "2026-08-25", TokenNumber: 1, Fee: 500, HospitalID: hospitalA.ID},
		{PatientName: "Bela Singh", UHID: "MD-2026-100002", VisitDate: "2026-08-25", TokenNumber: 1, Fee: 700, HospitalID: hospitalB.ID},
	}
	require.NoError(t, Models.DB.Create(&visits).Error)

	recorder := postJSONScoped(t, ExportOPDRegister, map[string]interface{}{"date": "2026-08-25"}, hospitalA.ID)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	cells := sheetCells(t, "./OPDRegister.xlsx", "OPD Register")
	assert.Contains(t, cells, "Asha Patel")
	assert.NotContains(t, cells, "Bela Singh")
}

func TestExportRevenueSheetScopedToHospital(t *testing.T) {
	setupTestDB(t)
	t.Cleanup(func() { os.Remove("./Revenue.xlsx") })

	hospitalA := Models.Hospital{Name: "Hospital A " + t.Name()}
	require.NoError(t, Models.DB.Create(&hospitalA).Error)
	hospitalB := Models.Hospital{Name: "Hospital B " + t.Name()}
	require.NoError(t, Models.DB.Create(&hospitalB).Error)

	visit := Models.OPDRegistration{PatientName: "Asha Patel", VisitDate: "2026-08-20", Fee: 500, IsPaid: true, HospitalID: hospitalA.ID}
	require.NoError(t, Models.DB.Create(&visit).Error)

	admissionB := Models.IPDAdmission{PatientName: "Bela Singh", AdmittedAt: time.Now(), Status: Models.AdmissionOpen, HospitalID: hospitalB.ID}
	require.NoError(t, Models.DB.Create(&admissionB).Error)
	payment := Models.Payment{IPDAdmissionID: admissionB.ID, Amount: 9000, ReceiptNumber: "foreign-receipt", ReceivedAt: time.Date(2026, 8, 20, 12, 0, 0, 0, time.Local)}
	require.NoError(t, Models.DB.Create(&payment).Error)

	recorder := postJSONScoped(t, ExportRevenueSheet, map[string]interface{}{
		"date_from": "2026-08-20",
		"date_to":   "2026-08-20",
	}, hospitalA.ID)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	cells := sheetCells(t, "./Revenue.xlsx", "Revenue")
	assert.Contains(t, cells, "Asha Patel")
	assert.NotContains(t, cells, "foreign-receipt")
}
