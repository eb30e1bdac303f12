package service

import (
	"context"

	"github.com/BMMUGOMBA/terminal-pulse/internal/entity"
)

//go:generate go run go.uber.org/mock/mockgen@latest -source=service.go -destination=../mocks/service.go -package=mocks -typed

type Publisher interface {
	Publish(ctx context.Context, event entity.Event)
}

type AlertSender interface {
	SendAlert(ctx context.Context, event entity.Event) error
}

type Mailer interface {
	SendLockoutNotice(ctx context.Context, event entity.Event) error
}
