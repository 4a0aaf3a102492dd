package domain

// ActivityAction labels an auth operation in the activity trail.
type ActivityAction string

const (
	ActivitySignUp        ActivityAction = "sign_up"
	ActivitySignIn        ActivityAction = "sign_in"
	ActivitySignOut       ActivityAction = "sign_out"
	ActivityResetRequest  ActivityAction = "reset_requested"
	ActivityResetComplete ActivityAction = "reset_completed"
)
