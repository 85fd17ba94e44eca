// Package obs contains observability utilities such as logging.
package obs

import "go.uber.org/zap"

// Logger is the global structured logger used by the service.
//
// Logger defaults to a no-op logger so packages can log safely in tests
// without calling InitLogger first.
var Logger = zap.NewNop()

// InitLogger initializes the global Logger with the production JSON config.
func InitLogger() {
	l, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	Logger = l
}
