package domain_test

import (
	"testing"

	"github.com/finbooks/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestJournalEntry_IsBalanced(t *testing.T) {
	tests := []struct {
		name  string
		lines []domain.JournalLine
		want  bool
	}{
		{
			name: "two line balanced entry",
			lines: []domain.JournalLine{
				{Debit: dec("1500"), Credit: decimal.Zero},
				{Debit: decimal.Zero, Credit: dec("1500")},
			},
			want: true,
		},
		{
			name: "unbalanced entry",
			lines: []domain.JournalLine{
				{Debit: dec("100"), Credit: decimal.Zero},
				{Debit: decimal.Zero, Credit: dec("90")},
			},
			want: false,
		},
		{
			name: "fractional cents within epsilon",
			lines: []domain.JournalLine{
				{Debit: dec("333.335"), Credit: decimal.Zero},
				{Debit: decimal.Zero, Credit: dec("333.34")},
			},
			want: true,
		},
		{
			name: "just outside epsilon",
			lines: []domain.JournalLine{
				{Debit: dec("100.02"), Credit: decimal.Zero},
				{Debit: decimal.Zero, Credit: dec("100.00")},
			},
			want: false,
		},
		{
			name: "multi line split balanced",
			lines: []domain.JournalLine{
				{Debit: dec("250.75"), Credit: decimal.Zero},
				{Debit: dec("749.25"), Credit: decimal.Zero},
				{Debit: decimal.Zero, Credit: dec("1000")},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := domain.JournalEntry{Lines: tt.lines}
			assert.Equal(t, tt.want, entry.IsBalanced())
		})
	}
}

func TestJournalEntry_ReversalLines(t *testing.T) {
	entry := domain.JournalEntry{
		Lines: []domain.JournalLine{
			{AccountNumber: "1100", AccountName: "Accounts Receivable", Debit: dec("1500"), Credit: decimal.Zero, Project: "alpha"},
			{AccountNumber: "4000", AccountName: "Service Revenue", Debit: decimal.Zero, Credit: dec("1500"), Department: "sales"},
		},
	}

	reversed := entry.ReversalLines()

	assert.Len(t, reversed, 2)
	for i, l := range reversed {
		assert.True(t, l.Debit.Equal(entry.Lines[i].Credit), "line %d debit should be original credit", i)
		assert.True(t, l.Credit.Equal(entry.Lines[i].Debit), "line %d credit should be original debit", i)
		assert.Equal(t, entry.Lines[i].AccountNumber, l.AccountNumber)
		assert.Equal(t, entry.Lines[i].AccountName, l.AccountName)
	}
	// Dimensions survive the swap.
	assert.Equal(t, "alpha", reversed[0].Project)
	assert.Equal(t, "sales", reversed[1].Department)

	// A line-wise swap of a balanced entry is itself balanced.
	swap := domain.JournalEntry{Lines: reversed}
	assert.True(t, swap.IsBalanced())
}

func TestNormalBalanceFor(t *testing.T) {
	assert.Equal(t, domain.DebitNormal, domain.NormalBalanceFor(domain.Asset))
	assert.Equal(t, domain.DebitNormal, domain.NormalBalanceFor(domain.ExpenseType))
	assert.Equal(t, domain.CreditNormal, domain.NormalBalanceFor(domain.Liability))
	assert.Equal(t, domain.CreditNormal, domain.NormalBalanceFor(domain.Equity))
	assert.Equal(t, domain.CreditNormal, domain.NormalBalanceFor(domain.Revenue))
}
