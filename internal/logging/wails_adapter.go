package logging

import "go.uber.org/zap"

// WailsAdapter adapts a zap logger to the Wails logger interface
type WailsAdapter struct {
	logger *zap.Logger
}

// NewWailsAdapter creates a Wails logger backed by zap
func NewWailsAdapter(logger *zap.Logger) *WailsAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WailsAdapter{
		logger: logger.With(zap.String("source", "wails")),
	}
}

// Print logs a message at INFO level (Wails general output)
func (w *WailsAdapter) Print(message string) {
	w.logger.Info(message)
}

// Trace logs a message at DEBUG level (Wails trace output)
func (w *WailsAdapter) Trace(message string) {
	w.logger.Debug(message, zap.String("level", "trace"))
}

// Debug logs a message at DEBUG level
func (w *WailsAdapter) Debug(message string) {
	w.logger.Debug(message)
}

// Info logs a message at INFO level
func (w *WailsAdapter) Info(message string) {
	w.logger.Info(message)
}

// Warning logs a message at WARN level
func (w *WailsAdapter) Warning(message string) {
	w.logger.Warn(message)
}

// Error logs a message at ERROR level
func (w *WailsAdapter) Error(message string) {
	w.logger.Error(message)
}

// Fatal logs at ERROR level; Wails must not terminate the overlay
func (w *WailsAdapter) Fatal(message string) {
	w.logger.Error(message, zap.String("level", "fatal"))
}
