package domain

type ActivityType string

const (
	TypeComment ActivityType = "comment"
	TypeEvent   ActivityType = "event"
	TypeMention ActivityType = "mention"
)

func (t ActivityType) Valid() bool {
	return t == TypeComment || t == TypeEvent || t == TypeMention
}
