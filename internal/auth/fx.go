package auth

import (
	"github.com/fahimshariar28/eidi/internal/auth/oauth"
	"github.com/fahimshariar28/eidi/internal/auth/service"
	"github.com/fahimshariar28/eidi/internal/auth/session"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(service.NewService),
	fx.Provide(oauth.NewService),
	fx.Provide(session.NewManager),
)
