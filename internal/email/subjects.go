package email

const (
	subjectCrewAssignmentFmt = "Crew assignment: %s"
	subjectHandoverFmt       = "New production: %s"
)
