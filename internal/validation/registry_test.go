package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserCreateSchema(t *testing.T) {
	out, errs := UserCreate.Validate(map[string]interface{}{
		"email":    "trader@example.com",
		"password": "s3cret-pass",
		"fullName": "Asha Rao",
	})
	require.Nil(t, errs)
	m := out.(map[string]interface{})
	assert.Equal(t, "trader@example.com", m["email"])
	_, hasPhone := m["phone"]
	assert.False(t, hasPhone)
}

func TestPaymentInitiateUPISchema(t *testing.T) {
	_, errs := PaymentInitiateUPI.Validate(map[string]interface{}{
		"amount": -10.0,
		"vpa":    "not a vpa",
	})
	require.Len(t, errs, 2)
	assert.Equal(t, "amount", errs[0].Path)
	assert.Equal(t, "vpa", errs[1].Path)

	out, errs := PaymentInitiateUPI.Validate(map[string]interface{}{
		"amount": 499.0,
		"vpa":    "asha.rao@upi",
	})
	require.Nil(t, errs)
	assert.Equal(t, 499.0, out.(map[string]interface{})["amount"])
}

func TestBackupCreateDefaults(t *testing.T) {
	out, errs := BackupCreate.Validate(map[string]interface{}{"type": "incremental"})
	require.Nil(t, errs)
	m := out.(map[string]interface{})
	assert.Equal(t, "normal", m["priority"])
	assert.Equal(t, true, m["compression"])
	assert.Equal(t, true, m["encryption"])

	_, errs = BackupCreate.Validate(map[string]interface{}{"type": "hourly"})
	require.Len(t, errs, 1)
	assert.Equal(t, "type", errs[0].Path)
}

func TestPredictionForecastSchema(t *testing.T) {
	out, errs := PredictionForecast.Validate(map[string]interface{}{"symbol": "RELIANCE"})
	require.Nil(t, errs)
	m := out.(map[string]interface{})
	assert.Equal(t, 7, m["horizon"])
	assert.Equal(t, "daily", m["interval"])
}
