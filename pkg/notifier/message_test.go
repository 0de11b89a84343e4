package notifier

import (
	"testing"
	"time"

	"github.com/example/orderdesk/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderReceivedBody(t *testing.T) {
	orderDate := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	items := []models.OrderItem{
		{ItemName: "Ceramic Mug", Quantity: 2},
		{ItemName: "Logo Tee", Quantity: 1},
	}

	body := OrderReceivedBody("Meera", "ord-1", orderDate, items)

	require.Len(t, body, 4)
	assert.Equal(t, "Meera", body[0])
	assert.Equal(t, "ord-1", body[1])
	assert.Equal(t, "Thu Aug 20 2026", body[2])
	assert.Equal(t, "- 2 × Ceramic Mug, - 1 × Logo Tee", body[3])
	assert.NoError(t, ValidateBody(body))
}

func TestValidateBody(t *testing.T) {
	assert.ErrorIs(t, ValidateBody(nil), ErrIncompleteBody)
	assert.ErrorIs(t, ValidateBody([]string{"Meera", "", "x"}), ErrIncompleteBody)
	assert.NoError(t, ValidateBody([]string{"Meera", "ord-1"}))
}

func TestOrderReceivedBodyNoItems(t *testing.T) {
	body := OrderReceivedBody("Meera", "ord-1", time.Now(), nil)
	require.Len(t, body, 4)
	assert.ErrorIs(t, ValidateBody(body), ErrIncompleteBody, "an empty item summary fails validation")
}
