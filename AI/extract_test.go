package AI

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDraftDropsNamelessMedicines(t *testing.T) {
	draft := PrescriptionDraft{
		Diagnosis: "Viral fever",
		Medicines: []MedicineDraft{
			{Name: "Paracetamol", Dosage: "500mg"},
			{Name: "   ", Dosage: "10ml"},
			{Name: "ORS"},
		},
	}

	validated, err := ValidateDraft(draft)
	require.NoError(t, err)
	require.Len(t, validated.Medicines, 2)
	assert.Equal(t, "Paracetamol", validated.Medicines[0].Name)
	assert.Equal(t, "ORS", validated.Medicines[1].Name)
}

func TestValidateDraftRejectsEmpty(t *testing.T) {
	_, err := ValidateDraft(PrescriptionDraft{
		Medicines: []MedicineDraft{{Name: "  "}},
	})
	assert.Error(t, err)
}

func TestValidateDraftKeepsDiagnosisOnly(t *testing.T) {
	validated, err := ValidateDraft(PrescriptionDraft{Diagnosis: "Migraine"})
	require.NoError(t, err)
	assert.Empty(t, validated.Medicines)
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences(`{"a":1}`))
}

func TestExtractPrescriptionWithoutClient(t *testing.T) {
	_, err := ExtractPrescription(t.Context(), "fever for three days")
	assert.Error(t, err)
}
