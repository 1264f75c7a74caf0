package budget

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AyushTurak/ExpenseTracker/internal/models"

	"github.com/shopspring/decimal"
)

// ---------- fakes ----------

type fakeConfigs struct {
	cfg     *models.BudgetAlert
	getErr  error
	markErr error
	marked  []string
}

func (f *fakeConfigs) GetConfig(ctx context.Context, userID uint) (*models.BudgetAlert, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.cfg, nil
}

func (f *fakeConfigs) MarkNotified(ctx context.Context, userID uint, period string, at time.Time) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.marked = append(f.marked, period)
	f.cfg.LastNotifiedPeriod = period
	f.cfg.LastNotifiedAt = &at
	return nil
}

type fakeExpenses struct {
	total decimal.Decimal
	err   error
}

func (f *fakeExpenses) CurrentMonthExpenseTotal(ctx context.Context, userID uint, now time.Time) (decimal.Decimal, error) {
	if f.err != nil {
		return decimal.Zero, f.err
	}
	return f.total, nil
}

type fakeNotifications struct {
	created   []*models.Notification
	createErr error
	emailSent []uint
}

func (f *fakeNotifications) Create(ctx context.Context, n *models.Notification) error {
	if f.createErr != nil {
		return f.createErr
	}
	n.ID = uint(len(f.created) + 1)
	f.created = append(f.created, n)
	return nil
}

func (f *fakeNotifications) MarkEmailSent(ctx context.Context, id uint) error {
	f.emailSent = append(f.emailSent, id)
	return nil
}

type fakeMailer struct {
	sent []string // recipient addresses
	err  error
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

// ---------- helpers ----------

var checkTime = time.Date(2025, time.July, 15, 12, 0, 0, 0, time.UTC)

func newChecker(cfgs *fakeConfigs, exp *fakeExpenses, notes *fakeNotifications, mail *fakeMailer) *Checker {
	return &Checker{
		Configs:       cfgs,
		Expenses:      exp,
		Notifications: notes,
		Mailer:        mail,
		Now:           func() time.Time { return checkTime },
	}
}

func testConfig() *models.BudgetAlert {
	return &models.BudgetAlert{
		UserID:              1,
		MonthlyBudget:       d("1000"),
		ThresholdPercentage: 80,
		NotificationEmail:   true,
		AlertEnabled:        true,
	}
}

var testUser = &models.User{ID: 1, Email: "user@example.com"}

// ---------- tests ----------

func TestCheck_NotConfigured(t *testing.T) {
	cfgs := &fakeConfigs{cfg: nil}
	notes := &fakeNotifications{}
	ch := newChecker(cfgs, &fakeExpenses{total: d("500")}, notes, &fakeMailer{})

	st, out, err := ch.Check(context.Background(), testUser)
	if err != nil {
		t.Fatalf("Check error = %v, want nil", err)
	}
	if st != nil {
		t.Error("status should be nil when no budget is configured")
	}
	if out.Notified || len(notes.created) != 0 {
		t.Error("no notification should be dispatched without a configuration")
	}
}

func TestCheck_BelowThreshold(t *testing.T) {
	cfgs := &fakeConfigs{cfg: &models.BudgetAlert{
		UserID: 1, MonthlyBudget: d("2000"), ThresholdPercentage: 80,
		NotificationEmail: true, AlertEnabled: true,
	}}
	notes := &fakeNotifications{}
	mail := &fakeMailer{}
	ch := newChecker(cfgs, &fakeExpenses{total: d("1200")}, notes, mail)

	st, out, err := ch.Check(context.Background(), testUser)
	if err != nil {
		t.Fatalf("Check error = %v", err)
	}
	if !st.PercentageUsed.Equal(d("60")) {
		t.Errorf("percentage used = %s, want 60", st.PercentageUsed)
	}
	if out.Notified || len(notes.created) != 0 || len(mail.sent) != 0 {
		t.Error("below threshold must not notify")
	}
}

func TestCheck_BreachNotifiesAndEmails(t *testing.T) {
	cfgs := &fakeConfigs{cfg: testConfig()}
	notes := &fakeNotifications{}
	mail := &fakeMailer{}
	ch := newChecker(cfgs, &fakeExpenses{total: d("850")}, notes, mail)

	st, out, err := ch.Check(context.Background(), testUser)
	if err != nil {
		t.Fatalf("Check error = %v", err)
	}
	if !st.IsThresholdExceeded {
		t.Fatal("expected threshold exceeded")
	}
	if !out.Notified || !out.EmailSent {
		t.Errorf("outcome = %+v, want notified and email sent", out)
	}
	if len(notes.created) != 1 {
		t.Fatalf("notifications created = %d, want 1", len(notes.created))
	}
	n := notes.created[0]
	if n.Type != models.NotificationBudgetAlert {
		t.Errorf("notification type = %q", n.Type)
	}
	if n.Message != "Your expenses have reached 85.0% of your monthly budget." {
		t.Errorf("notification message = %q", n.Message)
	}
	if len(cfgs.marked) != 1 || cfgs.marked[0] != "2025-07" {
		t.Errorf("marked periods = %v, want [2025-07]", cfgs.marked)
	}
	if len(mail.sent) != 1 || mail.sent[0] != "user@example.com" {
		t.Errorf("mail recipients = %v", mail.sent)
	}
	if len(notes.emailSent) != 1 || notes.emailSent[0] != n.ID {
		t.Errorf("email_sent flags = %v", notes.emailSent)
	}
}

func TestCheck_EmailDisabledStillPersists(t *testing.T) {
	cfg := testConfig()
	cfg.NotificationEmail = false
	cfgs := &fakeConfigs{cfg: cfg}
	notes := &fakeNotifications{}
	mail := &fakeMailer{}
	ch := newChecker(cfgs, &fakeExpenses{total: d("850")}, notes, mail)

	st, out, err := ch.Check(context.Background(), testUser)
	if err != nil {
		t.Fatalf("Check error = %v", err)
	}
	if !st.RemainingBudget.Equal(d("150")) {
		t.Errorf("remaining budget = %s, want 150", st.RemainingBudget)
	}
	if !out.Notified || out.EmailSent {
		t.Errorf("outcome = %+v, want notified without email", out)
	}
	if len(notes.created) != 1 {
		t.Errorf("notifications created = %d, want 1", len(notes.created))
	}
	if len(mail.sent) != 0 {
		t.Error("no email dispatch should be attempted")
	}
	if len(cfgs.marked) != 1 {
		t.Error("episode must still be recorded")
	}
}

func TestCheck_IdempotentWithinPeriod(t *testing.T) {
	cfgs := &fakeConfigs{cfg: testConfig()}
	notes := &fakeNotifications{}
	ch := newChecker(cfgs, &fakeExpenses{total: d("850")}, notes, &fakeMailer{})

	for i := 0; i < 3; i++ {
		if _, _, err := ch.Check(context.Background(), testUser); err != nil {
			t.Fatalf("Check %d error = %v", i, err)
		}
	}

	if len(notes.created) != 1 {
		t.Errorf("notifications created = %d, want exactly 1 per breach episode", len(notes.created))
	}
}

func TestCheck_AlertsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.AlertEnabled = false
	cfgs := &fakeConfigs{cfg: cfg}
	notes := &fakeNotifications{}
	ch := newChecker(cfgs, &fakeExpenses{total: d("1500")}, notes, &fakeMailer{})

	st, out, err := ch.Check(context.Background(), testUser)
	if err != nil {
		t.Fatalf("Check error = %v", err)
	}
	if !st.PercentageUsed.Equal(d("150")) {
		t.Errorf("percentage used = %s", st.PercentageUsed)
	}
	if out.Notified || len(notes.created) != 0 {
		t.Error("disabled alerts must suppress notifications regardless of percentage")
	}
}

func TestCheck_MonthRolloverNotifiesAgain(t *testing.T) {
	cfg := testConfig()
	cfg.LastNotifiedPeriod = "2025-06"
	at := time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC)
	cfg.LastNotifiedAt = &at

	cfgs := &fakeConfigs{cfg: cfg}
	notes := &fakeNotifications{}
	ch := newChecker(cfgs, &fakeExpenses{total: d("850")}, notes, &fakeMailer{})

	// still over threshold in July: exactly one new notification
	if _, _, err := ch.Check(context.Background(), testUser); err != nil {
		t.Fatalf("Check error = %v", err)
	}
	if _, _, err := ch.Check(context.Background(), testUser); err != nil {
		t.Fatalf("Check error = %v", err)
	}

	if len(notes.created) != 1 {
		t.Errorf("notifications created = %d, want 1 for the new period", len(notes.created))
	}
	if cfg.LastNotifiedPeriod != "2025-07" {
		t.Errorf("last notified period = %q, want 2025-07", cfg.LastNotifiedPeriod)
	}
}

func TestCheck_RearmedAfterConfigEdit(t *testing.T) {
	cfg := testConfig()
	cfg.LastNotifiedPeriod = "2025-07" // already notified this month

	cfgs := &fakeConfigs{cfg: cfg}
	notes := &fakeNotifications{}
	ch := newChecker(cfgs, &fakeExpenses{total: d("850")}, notes, &fakeMailer{})

	if _, _, err := ch.Check(context.Background(), testUser); err != nil {
		t.Fatalf("Check error = %v", err)
	}
	if len(notes.created) != 0 {
		t.Fatal("same-period re-evaluation must not notify")
	}

	// editing the configuration clears the episode pair
	cfg.LastNotifiedPeriod = ""
	cfg.LastNotifiedAt = nil

	if _, _, err := ch.Check(context.Background(), testUser); err != nil {
		t.Fatalf("Check error = %v", err)
	}
	if len(notes.created) != 1 {
		t.Errorf("notifications created = %d, want 1 after re-arm", len(notes.created))
	}
}

func TestCheck_PersistenceFailure(t *testing.T) {
	cfgs := &fakeConfigs{cfg: testConfig()}
	notes := &fakeNotifications{createErr: errors.New("storage down")}
	mail := &fakeMailer{}
	ch := newChecker(cfgs, &fakeExpenses{total: d("850")}, notes, mail)

	_, out, err := ch.Check(context.Background(), testUser)
	if err == nil {
		t.Fatal("Check error = nil, want persistence failure")
	}
	if out.Notified {
		t.Error("outcome must not report notified")
	}
	if len(cfgs.marked) != 0 {
		t.Error("last_notified must not be updated on persistence failure")
	}
	if len(mail.sent) != 0 {
		t.Error("no email may be attempted without a persisted record")
	}
}

func TestCheck_EmailFailureTolerated(t *testing.T) {
	cfgs := &fakeConfigs{cfg: testConfig()}
	notes := &fakeNotifications{}
	mail := &fakeMailer{err: errors.New("mail api down")}
	ch := newChecker(cfgs, &fakeExpenses{total: d("850")}, notes, mail)

	_, out, err := ch.Check(context.Background(), testUser)
	if err != nil {
		t.Fatalf("Check error = %v, want nil (email is best effort)", err)
	}
	if !out.Notified || out.EmailSent {
		t.Errorf("outcome = %+v, want notified without email", out)
	}
	if len(notes.created) != 1 {
		t.Error("notification must persist despite email failure")
	}
	if len(notes.emailSent) != 0 {
		t.Error("email_sent must stay false")
	}
	if len(cfgs.marked) != 1 {
		t.Error("last_notified must still be updated")
	}
}

func TestCheck_UpstreamReadFailure(t *testing.T) {
	cfgs := &fakeConfigs{cfg: testConfig()}
	ch := newChecker(cfgs, &fakeExpenses{err: errors.New("db timeout")}, &fakeNotifications{}, &fakeMailer{})

	st, _, err := ch.Check(context.Background(), testUser)
	if err == nil {
		t.Fatal("Check error = nil, want upstream failure")
	}
	if st != nil {
		t.Error("no partial status may be returned on upstream failure")
	}
}
