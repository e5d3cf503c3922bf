package templates

// The production catalog. Every template here must already be approved on the
// gateway side under the same id; the sync endpoint reconciles approval state
// into the database for the health report.
var catalog = MustNewRegistry(
	Definition{
		ID:          "wallet_created",
		Name:        "Wallet Created",
		Description: "Sent when a resident wallet is provisioned",
		ArgCount:    3,
		ArgDescriptions: []string{
			"Resident name",
			"Community name",
			"Wallet id",
		},
		SampleArgs: []string{"Ravi Kumar", "Green Meadows", "WLT-10421"},
		Body:       "Hi {{1}}, your {{2}} wallet {{3}} is ready. You can now pay community dues and book amenities from the app.",
	},
	Definition{
		ID:          "topup_success",
		Name:        "Top-up Confirmation",
		Description: "Sent after a wallet top-up is confirmed",
		ArgCount:    4,
		ArgDescriptions: []string{
			"Resident name",
			"Top-up amount",
			"Wallet balance",
			"Transaction date",
		},
		SampleArgs: []string{"Ravi Kumar", "₹500.00", "₹1250.00", "12 Aug 2026"},
		Body:       "Hi {{1}}, your top-up of {{2}} was successful. New balance: {{3}} (as of {{4}}).",
	},
	Definition{
		ID:          "visitor_checkin",
		Name:        "Visitor Check-in",
		Description: "Sent to the resident when a visitor checks in at the gate",
		ArgCount:    3,
		ArgDescriptions: []string{
			"Visitor name",
			"Gate or entry point",
			"Check-in time",
		},
		SampleArgs: []string{"Anita Sharma", "Main Gate", "10:42 AM"},
		Body:       "{{1}} has checked in at {{2}} at {{3}}. Open the app to approve or view details.",
	},
	Definition{
		ID:          "parcel_arrived",
		Name:        "Parcel Arrival",
		Description: "Sent when a parcel is received at the guard desk",
		ArgCount:    3,
		ArgDescriptions: []string{
			"Resident name",
			"Courier name",
			"Pickup location",
		},
		SampleArgs: []string{"Ravi Kumar", "BlueDart", "Tower B guard desk"},
		HasImage:   true,
		Body:       "Hi {{1}}, a parcel from {{2}} is waiting for you at {{3}}.",
	},
	Definition{
		ID:          "payment_reminder",
		Name:        "Payment Reminder",
		Description: "Sent when a maintenance payment is due",
		ArgCount:    3,
		ArgDescriptions: []string{
			"Resident name",
			"Amount due",
			"Due date",
		},
		SampleArgs: []string{"Ravi Kumar", "₹2400.00", "31 Aug 2026"},
		Body:       "Hi {{1}}, your maintenance payment of {{2}} is due by {{3}}. Pay from the app to avoid late fees.",
	},
	Definition{
		ID:          "announcement_alert",
		Name:        "Community Announcement",
		Description: "Broadcast for management announcements",
		ArgCount:    2,
		ArgDescriptions: []string{
			"Announcement title",
			"Short summary",
		},
		SampleArgs: []string{"Water supply maintenance", "Water will be off from 2 PM to 5 PM on Saturday"},
		HasImage:   true,
		Body:       "{{1}}: {{2}}. See the app for full details.",
	},
)

// Default returns the static production catalog.
func Default() *Registry {
	return catalog
}
