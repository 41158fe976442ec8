package email

const (
	subjectWelcome         = "Welcome to the waiting list"
	subjectPointsEarned    = "You earned points"
	subjectPointsEarnedFmt = "You just earned %d points"
)
