package gateway_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boxoffice/entity"
	"boxoffice/gateway"
)

func TestPaymentsMockChargesValidTokens(t *testing.T) {
	ctx := context.Background()
	payments := &gateway.PaymentsMock{}

	charge, err := payments.Charge(ctx, entity.ChargeRequest{
		AmountCents:        2500,
		PaymentToken:       payments.ValidTestToken(),
		DestinationAccount: "acct_a",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2500), charge.AmountCents)
	assert.Equal(t, "4242", charge.CardLastFour)
	assert.Equal(t, int64(2500), payments.TotalCharges())
}

func TestPaymentsMockRejectsUnknownTokens(t *testing.T) {
	ctx := context.Background()
	payments := &gateway.PaymentsMock{}

	_, err := payments.Charge(ctx, entity.ChargeRequest{
		AmountCents:  2500,
		PaymentToken: "tok_garbage",
	})
	require.ErrorIs(t, err, entity.ErrInvalidPaymentToken)
	assert.Zero(t, payments.TotalCharges())
	assert.Zero(t, payments.ChargeCount())
}

func TestPaymentsMockRejectsTruncatedCardNumbers(t *testing.T) {
	ctx := context.Background()
	payments := &gateway.PaymentsMock{}

	_, err := payments.Charge(ctx, entity.ChargeRequest{
		AmountCents:  2500,
		PaymentToken: payments.ValidTestTokenFor("12"),
	})
	require.ErrorIs(t, err, entity.ErrInvalidPaymentToken)
	assert.Zero(t, payments.ChargeCount())
}

func TestPaymentsMockTalliesPerDestinationAccount(t *testing.T) {
	ctx := context.Background()
	payments := &gateway.PaymentsMock{}

	_, err := payments.Charge(ctx, entity.ChargeRequest{
		AmountCents:        1000,
		PaymentToken:       payments.ValidTestToken(),
		DestinationAccount: "acct_a",
	})
	require.NoError(t, err)

	_, err = payments.Charge(ctx, entity.ChargeRequest{
		AmountCents:        2000,
		PaymentToken:       payments.ValidTestTokenFor("5555444433332222"),
		DestinationAccount: "acct_b",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(3000), payments.TotalCharges())
	assert.Equal(t, int64(1000), payments.TotalChargesFor("acct_a"))
	assert.Equal(t, int64(2000), payments.TotalChargesFor("acct_b"))
	assert.Zero(t, payments.TotalChargesFor("acct_unknown"))
}

func TestPaymentsMockBeforeFirstChargeFiresOnce(t *testing.T) {
	ctx := context.Background()
	payments := &gateway.PaymentsMock{}

	fired := 0
	payments.BeforeFirstCharge(func() {
		fired++
	})

	for i := 0; i < 3; i++ {
		_, err := payments.Charge(ctx, entity.ChargeRequest{
			AmountCents:  100,
			PaymentToken: payments.ValidTestToken(),
		})
		require.NoError(t, err)
	}

	assert.Equal(t, 1, fired)
}

func TestPaymentsMockCardLastFourFollowsToken(t *testing.T) {
	ctx := context.Background()
	payments := &gateway.PaymentsMock{}

	charge, err := payments.Charge(ctx, entity.ChargeRequest{
		AmountCents:  100,
		PaymentToken: payments.ValidTestTokenFor("5555444433332222"),
	})
	require.NoError(t, err)
	assert.Equal(t, "2222", charge.CardLastFour)
}
