package Models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOccupyBedConflict(t *testing.T) {
	db := setupTestDB(t)

	ward := Ward{Name: "General", HospitalID: 1}
	require.NoError(t, db.Create(&ward).Error)
	bed := Bed{WardID: ward.ID, Number: "G-01", DailyCharge: 1200, Status: BedAvailable}
	require.NoError(t, db.Create(&bed).Error)

	require.NoError(t, OccupyBed(db, bed.ID, 10))

	var updated Bed
	require.NoError(t, db.First(&updated, bed.ID).Error)
	assert.Equal(t, BedOccupied, updated.Status)
	require.NotNil(t, updated.AdmissionID)
	assert.Equal(t, uint(10), *updated.AdmissionID)

	// Second claim must fail while the bed is occupied
	err := OccupyBed(db, bed.ID, 11)
	assert.ErrorIs(t, err, ErrBedOccupied)

	require.NoError(t, ReleaseBed(db, bed.ID))
	require.NoError(t, db.First(&updated, bed.ID).Error)
	assert.Equal(t, BedAvailable, updated.Status)
	assert.Nil(t, updated.AdmissionID)

	// Released beds can be claimed again
	assert.NoError(t, OccupyBed(db, bed.ID, 11))
}

func TestAdmissionTotals(t *testing.T) {
	db := setupTestDB(t)

	admission := IPDAdmission{PatientName: "Ravi Kumar", AdmittedAt: time.Now(), Status: AdmissionOpen, Deposit: 5000, HospitalID: 1}
	require.NoError(t, db.Create(&admission).Error)

	entries := []ChargeSheetEntry{
		{IPDAdmissionID: admission.ID, Description: "Bed Charges (2026-08-20)", Amount: 1200, Date: "2026-08-20"},
		{IPDAdmissionID: admission.ID, Description: "Lab Panel", Amount: 800, Date: "2026-08-20"},
		{IPDAdmissionID: admission.ID, Description: "Bed Charges (2026-08-21)", Amount: 1200, Date: "2026-08-21"},
	}
	require.NoError(t, db.Create(&entries).Error)

	payment := Payment{IPDAdmissionID: admission.ID, Amount: 2000, Method: "cash", ReceiptNumber: "r-1", ReceivedAt: time.Now()}
	require.NoError(t, db.Create(&payment).Error)

	// Charges for a different admission must not leak in
	other := IPDAdmission{PatientName: "Other", AdmittedAt: time.Now(), Status: AdmissionOpen, HospitalID: 1}
	require.NoError(t, db.Create(&other).Error)
	require.NoError(t, db.Create(&ChargeSheetEntry{IPDAdmissionID: other.ID, Description: "X-Ray", Amount: 500, Date: "2026-08-21"}).Error)

	charges, payments, err := AdmissionTotals(db, admission.ID)
	require.NoError(t, err)
	assert.Equal(t, 3200.0, charges)
	assert.Equal(t, 2000.0, payments)
}

func TestAdmissionTotalsEmpty(t *testing.T) {
	db := setupTestDB(t)

	admission := IPDAdmission{PatientName: "Empty", AdmittedAt: time.Now(), Status: AdmissionOpen, HospitalID: 1}
	require.NoError(t, db.Create(&admission).Error)

	charges, payments, err := AdmissionTotals(db, admission.ID)
	require.NoError(t, err)
	assert.Zero(t, charges)
	assert.Zero(t, payments)
}

func TestNextBillNumber(t *testing.T) {
	db := setupTestDB(t)

	first, err := NextBillNumber(db, 1, 2026)
	require.NoError(t, err)
	assert.Equal(t, "BILL-2026-0001", first)

	discharged := IPDAdmission{PatientName: "A", Status: AdmissionDischarged, BillNumber: first, HospitalID: 1}
	require.NoError(t, db.Create(&discharged).Error)

	second, err := NextBillNumber(db, 1, 2026)
	require.NoError(t, err)
	assert.Equal(t, "BILL-2026-0002", second)

	// Other hospitals and other years keep their own sequence
	otherHospital, err := NextBillNumber(db, 2, 2026)
	require.NoError(t, err)
	assert.Equal(t, "BILL-2026-0001", otherHospital)

	nextYear, err := NextBillNumber(db, 1, 2027)
	require.NoError(t, err)
	assert.Equal(t, "BILL-2027-0001", nextYear)
}

func TestBillNumberRejectsDuplicates(t *testing.T) {
	db := setupTestDB(t)

	first := IPDAdmission{PatientName: "A", Status: AdmissionDischarged, BillNumber: "BILL-2026-0001", HospitalID: 1}
	require.NoError(t, db.Create(&first).Error)

	// Same bill number in the same hospital must be refused by the schema
	duplicate := IPDAdmission{PatientName: "B", Status: AdmissionDischarged, BillNumber: "BILL-2026-0001", HospitalID: 1}
	assert.Error(t, db.Create(&duplicate).Error)

	// Other hospitals run their own sequence, so the same number is fine there
	otherHospital := IPDAdmission{PatientName: "C", Status: AdmissionDischarged, BillNumber: "BILL-2026-0001", HospitalID: 2}
	assert.NoError(t, db.Create(&otherHospital).Error)

	// Open admissions have no bill number yet and must not collide
	openOne := IPDAdmission{PatientName: "D", Status: AdmissionOpen, AdmittedAt: time.Now(), HospitalID: 1}
	openTwo := IPDAdmission{PatientName: "E", Status: AdmissionOpen, AdmittedAt: time.Now(), HospitalID: 1}
	assert.NoError(t, db.Create(&openOne).Error)
	assert.NoError(t, db.Create(&openTwo).Error)
}
