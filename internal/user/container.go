package user

type UserContainer struct {
	Handler *Handler
}

func NewUserContainer(credits CreditReader) *UserContainer {
	return &UserContainer{Handler: NewHandler(credits)}
}
