package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/aliskhannn/banking-notifier/internal/model"
)

// CreateForTransaction creates a PENDING notification about an existing transaction.
func (s *Service) CreateForTransaction(ctx context.Context, transactionID string, d model.Draft) (*model.Notification, error) {
	v, err := s.verifiers.Transactions.VerifyTransaction(ctx, transactionID)
	if err != nil {
		return nil, &UpstreamError{Service: ServiceTransaction, Op: "verify transaction", Err: err}
	}
	if !v.Exists {
		return nil, fmt.Errorf("transaction %s in %s: %w", transactionID, ServiceTransaction, ErrNotFound)
	}

	d.Message = fmt.Sprintf("Notification for transaction: %s - %s", transactionID, d.Message)

	return s.Create(ctx, d)
}

// CreateForAccount creates a PENDING notification about an existing account.
func (s *Service) CreateForAccount(ctx context.Context, accountNumber string, d model.Draft) (*model.Notification, error) {
	v, err := s.verifiers.Accounts.VerifyAccount(ctx, accountNumber)
	if err != nil {
		return nil, &UpstreamError{Service: ServiceAccount, Op: "verify account", Err: err}
	}
	if !v.Exists {
		return nil, fmt.Errorf("account %s in %s: %w", accountNumber, ServiceAccount, ErrNotFound)
	}

	d.Message = fmt.Sprintf("Notification for account: %s - %s", accountNumber, d.Message)

	return s.Create(ctx, d)
}

// CalculateFeesAndNotify asks the transaction service for the fee and emails it to the recipient.
func (s *Service) CalculateFeesAndNotify(ctx context.Context, transactionID string, d model.Draft) (string, error) {
	if err := checkEmailDraft(d); err != nil {
		return "", err
	}

	a, err := s.verifiers.Transactions.CalculateFees(ctx, transactionID)
	if err != nil {
		return "", &UpstreamError{Service: ServiceTransaction, Op: "calculate fees", Err: errors.Join(ErrFeeCalculation, err)}
	}
	if !a.Success {
		return "", &UpstreamError{Service: ServiceTransaction, Op: "calculate fees", Err: fmt.Errorf("%w: %s", ErrFeeCalculation, a.Text)}
	}

	d.Subject = "Transaction Fees Notification"
	d.Message = "Transaction fees: " + a.Text

	if _, err := s.createAndEmail(ctx, d); err != nil {
		return "", err
	}

	return "Fees calculated and notification sent: " + a.Text, nil
}

// CheckFraudAndNotify runs the anti-fraud check and emails a security alert with the result.
func (s *Service) CheckFraudAndNotify(ctx context.Context, transactionID string, d model.Draft) (string, error) {
	if err := checkEmailDraft(d); err != nil {
		return "", err
	}

	a, err := s.verifiers.Transactions.CheckFraud(ctx, transactionID)
	if err != nil {
		return "", &UpstreamError{Service: ServiceTransaction, Op: "check fraud", Err: errors.Join(ErrFraudCheck, err)}
	}
	if !a.Success {
		return "", &UpstreamError{Service: ServiceTransaction, Op: "check fraud", Err: fmt.Errorf("%w: %s", ErrFraudCheck, a.Text)}
	}

	d.Subject = "Security Alert - Transaction " + transactionID
	d.Message = "Anti-fraud check result: " + a.Text

	if _, err := s.createAndEmail(ctx, d); err != nil {
		return "", err
	}

	return "Fraud check completed and notification sent: " + a.Text, nil
}

// createAndEmail persists d and runs the email path on the fresh record.
func (s *Service) createAndEmail(ctx context.Context, d model.Draft) (string, error) {
	n, err := s.Create(ctx, d)
	if err != nil {
		return "", err
	}

	unlock := s.locks.lock(n.NotificationID)
	defer unlock()

	return s.sendEmailLocked(ctx, n)
}

func checkEmailDraft(d model.Draft) error {
	if d.NotificationType != model.TypeEmail {
		return fmt.Errorf("%w: expected an EMAIL draft, got %q", ErrTypeMismatch, d.NotificationType)
	}
	if d.RecipientEmail == "" {
		return fmt.Errorf("%w: recipient email is required", ErrMissingContact)
	}

	return nil
}
