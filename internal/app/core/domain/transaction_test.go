package domain_test

import (
	"errors"
	"testing"

	"github.com/JoeShih716/go-wallet-ledger/internal/app/core/domain"
)

func TestNewDepositTransaction(t *testing.T) {
	tran, err := domain.NewDepositTransaction(7, 500, "salary")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tran.Type != domain.TransactionTypeDeposit {
		t.Errorf("type = %q, want %q", tran.Type, domain.TransactionTypeDeposit)
	}
	if tran.ReceiverID != 7 {
		t.Errorf("receiverId = %d, want 7", tran.ReceiverID)
	}
	if tran.SenderID != 0 {
		t.Errorf("deposit must not carry a sender, got %d", tran.SenderID)
	}
	if tran.Status != domain.TransactionStatusCreated {
		t.Errorf("status = %q, want %q", tran.Status, domain.TransactionStatusCreated)
	}
}

func TestNewWithdrawalTransaction(t *testing.T) {
	tran, err := domain.NewWithdrawalTransaction(7, 500, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tran.SenderID != 7 {
		t.Errorf("senderId = %d, want 7", tran.SenderID)
	}
	if tran.ReceiverID != 0 {
		t.Errorf("withdrawal must not carry a receiver, got %d", tran.ReceiverID)
	}
}

func TestNewTransactionRejectsNonPositiveAmount(t *testing.T) {
	for _, amount := range []int64{0, -1, -500} {
		if _, err := domain.NewDepositTransaction(1, amount, ""); !errors.Is(err, domain.ErrInvalidAmount) {
			t.Errorf("deposit amount %d: err = %v, want ErrInvalidAmount", amount, err)
		}
		if _, err := domain.NewWithdrawalTransaction(1, amount, ""); !errors.Is(err, domain.ErrInvalidAmount) {
			t.Errorf("withdrawal amount %d: err = %v, want ErrInvalidAmount", amount, err)
		}
		if _, err := domain.NewTransferTransaction(1, 2, amount, ""); !errors.Is(err, domain.ErrInvalidAmount) {
			t.Errorf("transfer amount %d: err = %v, want ErrInvalidAmount", amount, err)
		}
	}
}

func TestNewTransferTransactionRejectsSameAccount(t *testing.T) {
	if _, err := domain.NewTransferTransaction(3, 3, 100, ""); !errors.Is(err, domain.ErrSameAccount) {
		t.Fatalf("err = %v, want ErrSameAccount", err)
	}
}

func TestParticipantsOrdering(t *testing.T) {
	// 轉帳的參與者永遠以升冪回傳，與 sender/receiver 角色無關
	tran, err := domain.NewTransferTransaction(9, 2, 100, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ids := tran.Participants()
	if len(ids) != 2 || ids[0] != 2 || ids[1] != 9 {
		t.Errorf("participants = %v, want [2 9]", ids)
	}
}

func TestInvolvesAccount(t *testing.T) {
	tran, err := domain.NewTransferTransaction(1, 2, 100, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tran.InvolvesAccount(1) || !tran.InvolvesAccount(2) {
		t.Error("both participants must be involved")
	}
	if tran.InvolvesAccount(3) {
		t.Error("account 3 is not a participant")
	}
}
