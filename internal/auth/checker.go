package auth

var _ Checker = (*Service)(nil)

type Checker interface {
	Session(token string) Session
}
