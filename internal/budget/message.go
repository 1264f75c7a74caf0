package budget

import "fmt"

// AlertMessage builds the in-app notification title and message for a
// threshold breach.
func AlertMessage(st Status) (title, message string) {
	title = "Budget Alert"
	message = fmt.Sprintf("Your expenses have reached %s%% of your monthly budget.",
		st.PercentageUsed.StringFixed(1))
	return title, message
}

// AlertEmail builds the subject and HTML body of the breach email,
// formatted for a non-technical reader.
func AlertEmail(st Status) (subject, html string) {
	subject = "Budget Alert: Your spending is increasing"
	html = fmt.Sprintf(`
    <div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
      <h2 style="color: #333;">Budget Alert Notification</h2>
      <p>Hi,</p>
      <p>Your expenses have reached <strong>%s%%</strong> of your monthly budget.</p>

      <div style="background-color: #f5f5f5; padding: 20px; border-radius: 8px; margin: 20px 0;">
        <p><strong>Monthly Budget:</strong> $%s</p>
        <p><strong>Current Expenses:</strong> $%s</p>
        <p><strong>Remaining Budget:</strong> $%s</p>
        <p><strong>Alert Threshold:</strong> %d%%</p>
      </div>

      <p>Please review your spending to ensure it stays within your budget.</p>
      <p style="color: #666; font-size: 12px; margin-top: 30px;">This is an automated alert from your Expense Tracker.</p>
    </div>`,
		st.PercentageUsed.StringFixed(1),
		st.MonthlyBudget.StringFixed(2),
		st.CurrentExpenses.StringFixed(2),
		st.RemainingBudget.StringFixed(2),
		st.ThresholdPercentage,
	)
	return subject, html
}
