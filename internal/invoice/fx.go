package invoice

import (
	"github.com/fahimshariar28/eidi/internal/invoice/receipt"
	"github.com/fahimshariar28/eidi/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(receipt.NewRenderer),
	fx.Provide(service.NewService),
)
