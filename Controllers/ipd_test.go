package Controllers

import (
	"net/http"
	"testing"

	"MediDesk/Models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedIPDFixtures(t *testing.T) (Models.Patient, Models.Doctor, Models.Bed) {
	t.Helper()

	hospital := Models.Hospital{Name: "City Hospital " + t.Name()}
	require.NoError(t, Models.DB.Create(&hospital).Error)

	patient := Models.Patient{Name: "Ravi Kumar", UHID: "MD-2026-111111", HospitalID: hospital.ID}
	require.NoError(t, Models.DB.Create(&patient).Error)

	doctor := Models.Doctor{Name: "Dr. Mehta", Specialization: "Medicine", OPDFee: 500, HospitalID: hospital.ID}
	require.NoError(t, Models.DB.Create(&doctor).Error)

	ward := Models.Ward{Name: "General", HospitalID: hospital.ID}
	require.NoError(t, Models.DB.Create(&ward).Error)

	bed := Models.Bed{WardID: ward.ID, Number: "G-01", DailyCharge: 1200, Status: Models.BedAvailable}
	require.NoError(t, Models.DB.Create(&bed).Error)

	return patient, doctor, bed
}

func TestAdmitPatientOccupiesBed(t *testing.T) {
	setupTestDB(t)
	patient, doctor, bed := seedIPDFixtures(t)

	recorder := postJSON(t, AdmitPatient, map[string]interface{}{
		"patient_id": patient.ID,
		"doctor_id":  doctor.ID,
		"bed_id":     bed.ID,
		"deposit":    5000,
	})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var updated Models.Bed
	require.NoError(t, Models.DB.First(&updated, bed.ID).Error)
	assert.Equal(t, Models.BedOccupied, updated.Status)

	var admission Models.IPDAdmission
	require.NoError(t, Models.DB.Where("patient_id = ?", patient.ID).First(&admission).Error)
	assert.Equal(t, Models.AdmissionOpen, admission.Status)
	assert.Equal(t, bed.ID, admission.BedID)
	assert.Equal(t, patient.UHID, admission.UHID)
}

func TestAdmitPatientBedConflict(t *testing.T) {
	setupTestDB(t)
	patient, doctor, bed := seedIPDFixtures(t)

	second := Models.Patient{Name: "Second Patient", UHID: "MD-2026-222222", HospitalID: patient.HospitalID}
	require.NoError(t, Models.DB.Create(&second).Error)

	recorder := postJSON(t, AdmitPatient, map[string]interface{}{
		"patient_id": patient.ID,
		"doctor_id":  doctor.ID,
		"bed_id":     bed.ID,
	})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	recorder = postJSON(t, AdmitPatient, map[string]interface{}{
		"patient_id": second.ID,
		"doctor_id":  doctor.ID,
		"bed_id":     bed.ID,
	})
	assert.Equal(t, http.StatusConflict, recorder.Code, recorder.Body.String())

	// The failed admission must not linger
	var count int64
	require.NoError(t, Models.DB.Model(&Models.IPDAdmission{}).Where("patient_id = ?", second.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAdmitPatientRejectsForeignBed(t *testing.T) {
	setupTestDB(t)
	patient, doctor, _ := seedIPDFixtures(t)

	otherHospital := Models.Hospital{Name: "Other Hospital " + t.Name()}
	require.NoError(t, Models.DB.Create(&otherHospital).Error)
	otherWard := Models.Ward{Name: "General", HospitalID: otherHospital.ID}
	require.NoError(t, Models.DB.Create(&otherWard).Error)
	otherBed := Models.Bed{WardID: otherWard.ID, Number: "G-01", DailyCharge: 900, Status: Models.BedAvailable}
	require.NoError(t, Models.DB.Create(&otherBed).Error)

	recorder := postJSON(t, AdmitPatient, map[string]interface{}{
		"patient_id": patient.ID,
		"doctor_id":  doctor.ID,
		"bed_id":     otherBed.ID,
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code, recorder.Body.String())

	var untouched Models.Bed
	require.NoError(t, Models.DB.First(&untouched, otherBed.ID).Error)
	assert.Equal(t, Models.BedAvailable, untouched.Status)

	var count int64
	require.NoError(t, Models.DB.Model(&Models.IPDAdmission{}).Where("patient_id = ?", patient.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestTransferBedRejectsForeignBed(t *testing.T) {
	setupTestDB(t)
	patient, doctor, bed := seedIPDFixtures(t)

	otherHospital := Models.Hospital{Name: "Other Hospital " + t.Name()}
	require.NoError(t, Models.DB.Create(&otherHospital).Error)
	otherWard := Models.Ward{Name: "Private", HospitalID: otherHospital.ID}
	require.NoError(t, Models.DB.Create(&otherWard).Error)
	otherBed := Models.Bed{WardID: otherWard.ID, Number: "P-01", DailyCharge: 3000, Status: Models.BedAvailable}
	require.NoError(t, Models.DB.Create(&otherBed).Error)

	recorder := postJSON(t, AdmitPatient, map[string]interface{}{
		"patient_id": patient.ID,
		"doctor_id":  doctor.ID,
		"bed_id":     bed.ID,
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	var admission Models.IPDAdmission
	require.NoError(t, Models.DB.Where("patient_id = ?", patient.ID).First(&admission).Error)

	recorder = postJSON(t, TransferBed, map[string]interface{}{
		"admission_id": admission.ID,
		"new_bed_id":   otherBed.ID,
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code, recorder.Body.String())

	// The patient stays in the original bed
	require.NoError(t, Models.DB.First(&admission, admission.ID).Error)
	assert.Equal(t, bed.ID, admission.BedID)
}

func TestAdmitPatientRejectsDoubleAdmission(t *testing.T) {
	setupTestDB(t)
	patient, doctor, bed := seedIPDFixtures(t)

	ward := Models.Ward{Name: "Private", HospitalID: patient.HospitalID}
	require.NoError(t, Models.DB.Create(&ward).Error)
	secondBed := Models.Bed{WardID: ward.ID, Number: "P-01", DailyCharge: 3000, Status: Models.BedAvailable}
	require.NoError(t, Models.DB.Create(&secondBed).Error)

	recorder := postJSON(t, AdmitPatient, map[string]interface{}{
		"patient_id": patient.ID,
		"doctor_id":  doctor.ID,
		"bed_id":     bed.ID,
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = postJSON(t, AdmitPatient, map[string]interface{}{
		"patient_id": patient.ID,
		"doctor_id":  doctor.ID,
		"bed_id":     secondBed.ID,
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code, recorder.Body.String())
}

func TestDischargeFlow(t *testing.T) {
	setupTestDB(t)
	patient, doctor, bed := seedIPDFixtures(t)

	recorder := postJSON(t, AdmitPatient, map[string]interface{}{
		"patient_id": patient.ID,
		"doctor_id":  doctor.ID,
		"bed_id":     bed.ID,
		"deposit":    5000,
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	var admission Models.IPDAdmission
	require.NoError(t, Models.DB.Where("patient_id = ?", patient.ID).First(&admission).Error)

	recorder = postJSON(t, AddChargeEntry, map[string]interface{}{
		"admission_id": admission.ID,
		"description":  "Lab Panel",
		"amount":       800,
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = postJSON(t, RecordPayment, map[string]interface{}{
		"admission_id": admission.ID,
		"amount":       1000,
		"method":       "cash",
	})
	require.Equal(t, http.StatusOK, recorder.Code)
	receipt, ok := decodeBody(t, recorder)["receipt_number"].(string)
	require.True(t, ok)
	assert.NotEmpty(t, receipt)

	recorder = postJSON(t, DischargePatient, map[string]interface{}{
		"admission_id":           admission.ID,
		"final_diagnosis":        "Dengue fever, recovered",
		"treatment_given":        "IV fluids, platelet monitoring",
		"condition_at_discharge": "Stable",
		"follow_up_date":         "2026-09-01",
	})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	body := decodeBody(t, recorder)
	assert.Contains(t, body["bill_number"], "BILL-")

	var closed Models.IPDAdmission
	require.NoError(t, Models.DB.First(&closed, admission.ID).Error)
	assert.Equal(t, Models.AdmissionDischarged, closed.Status)
	assert.NotEmpty(t, closed.BillNumber)
	assert.Equal(t, 800.0, closed.BillTotal)
	require.NotNil(t, closed.DischargedAt)

	var freed Models.Bed
	require.NoError(t, Models.DB.First(&freed, bed.ID).Error)
	assert.Equal(t, Models.BedAvailable, freed.Status)

	var summary Models.DischargeSummary
	require.NoError(t, Models.DB.Where("ipd_admission_id = ?", admission.ID).First(&summary).Error)
	assert.Equal(t, "Dengue fever, recovered", summary.FinalDiagnosis)

	// A second discharge of the same admission must fail
	recorder = postJSON(t, DischargePatient, map[string]interface{}{
		"admission_id": admission.ID,
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestDischargeBlockedOnOutstandingBalance(t *testing.T) {
	setupTestDB(t)
	patient, doctor, bed := seedIPDFixtures(t)

	recorder := postJSON(t, AdmitPatient, map[string]interface{}{
		"patient_id": patient.ID,
		"doctor_id":  doctor.ID,
		"bed_id":     bed.ID,
		"deposit":    100,
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	var admission Models.IPDAdmission
	require.NoError(t, Models.DB.Where("patient_id = ?", patient.ID).First(&admission).Error)

	recorder = postJSON(t, AddChargeEntry, map[string]interface{}{
		"admission_id": admission.ID,
		"description":  "Surgery",
		"amount":       25000,
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = postJSON(t, DischargePatient, map[string]interface{}{
		"admission_id": admission.ID,
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	// The bed stays occupied until the balance is settled
	var stillOccupied Models.Bed
	require.NoError(t, Models.DB.First(&stillOccupied, bed.ID).Error)
	assert.Equal(t, Models.BedOccupied, stillOccupied.Status)
}

func TestTransferBed(t *testing.T) {
	setupTestDB(t)
	patient, doctor, bed := seedIPDFixtures(t)

	ward := Models.Ward{Name: "Private", HospitalID: patient.HospitalID}
	require.NoError(t, Models.DB.Create(&ward).Error)
	target := Models.Bed{WardID: ward.ID, Number: "P-01", DailyCharge: 3000, Status: Models.BedAvailable}
	require.NoError(t, Models.DB.Create(&target).Error)

	recorder := postJSON(t, AdmitPatient, map[string]interface{}{
		"patient_id": patient.ID,
		"doctor_id":  doctor.ID,
		"bed_id":     bed.ID,
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	var admission Models.IPDAdmission
	require.NoError(t, Models.DB.Where("patient_id = ?", patient.ID).First(&admission).Error)

	recorder = postJSON(t, TransferBed, map[string]interface{}{
		"admission_id": admission.ID,
		"new_bed_id":   target.ID,
	})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var oldBed, newBed Models.Bed
	require.NoError(t, Models.DB.First(&oldBed, bed.ID).Error)
	require.NoError(t, Models.DB.First(&newBed, target.ID).Error)
	assert.Equal(t, Models.BedAvailable, oldBed.Status)
	assert.Equal(t, Models.BedOccupied, newBed.Status)

	require.NoError(t, Models.DB.First(&admission, admission.ID).Error)
	assert.Equal(t, target.ID, admission.BedID)
}
