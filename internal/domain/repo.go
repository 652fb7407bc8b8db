package domain

import "context"

// Фильтр списков контента
type ListFilter struct {
	Category string
	OwnerID  *UserID // ?user_id=
	Status   Status  // пусто — любой видимый
	// Viewer: кто смотрит. nil — аноним, видит только published.
	// Иначе видит published + свои черновики.
	Viewer *UserID
	Limit  int
}

// ContentRepo: общий репозиторий для Project/Testimonial/Service/Skill.
// Insert/Update возвращают ошибку, оборачивающую ErrConflict, если slug занят.
type ContentRepo[T any] interface {
	Insert(ctx context.Context, rec *T) error
	Update(ctx context.Context, rec *T) error
	Delete(ctx context.Context, id RecordID, owner UserID) error
	ByID(ctx context.Context, id RecordID) (T, error)
	BySlug(ctx context.Context, slug string) (T, error)
	List(ctx context.Context, f ListFilter) ([]T, error)
	SlugExists(ctx context.Context, slug string, except RecordID) (bool, error)
	CountByOwner(ctx context.Context, owner UserID) (ResourceCounts, error)
}

type UsersRepo interface {
	Close()
	Ping(context.Context) error
	CreateUser(ctx context.Context, u User) (User, error)
	UserByEmail(ctx context.Context, email string) (User, error)
	UserByID(ctx context.Context, id UserID) (User, error)
	UpdateProfile(ctx context.Context, u User) (User, error)
}

type MessagesRepo interface {
	CreateMessage(ctx context.Context, m ContactMessage) (ContactMessage, error)
	ListMessages(ctx context.Context, recipient UserID, unreadOnly bool) ([]ContactMessage, error)
	MarkRead(ctx context.Context, id RecordID, recipient UserID) error
	DeleteMessage(ctx context.Context, id RecordID, recipient UserID) error
	CountMessages(ctx context.Context, recipient UserID) (total, unread int, err error)
}
