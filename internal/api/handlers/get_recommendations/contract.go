package get_recommendations

import (
	"context"

	getRecommendations "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_recommendations"
)

type GetRecommendationsUseCase interface {
	Execute(ctx context.Context, req *getRecommendations.Request) (*getRecommendations.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
