package led

import (
	"log/slog"
	"os"
	"strings"

	"github.com/smazurov/bbled/internal/sysfs"
)

const deviceTreeModelPath = "/proc/device-tree/model"

// ControllerOptions configures NewController.
type ControllerOptions struct {
	// BasePath is the sysfs prefix of the LED directories. Empty means BasePath.
	BasePath string
	// Force skips board detection and always uses sysfs control.
	Force bool
	// FileSystem performs control-file I/O. Nil means sysfs.FS.
	FileSystem sysfs.FileSystem
}

// NewController creates an LED controller based on board detection
// Falls back to no-op controller if the board has no user LEDs.
func NewController(logger *slog.Logger, opts ControllerOptions) Controller {
	if opts.BasePath == "" {
		opts.BasePath = BasePath
	}
	if opts.FileSystem == nil {
		opts.FileSystem = sysfs.FS
	}

	if opts.Force {
		logger.Info("Board detection skipped, using sysfs LED controller", "base_path", opts.BasePath)
		return newSysfs(opts.BasePath, opts.FileSystem)
	}

	boardModel := detectBoard(deviceTreeModelPath)
	logger.Info("Detecting board for LED control", "board_model", boardModel)

	if strings.Contains(boardModel, "BeagleBone") {
		logger.Info("Detected BeagleBone, using sysfs LED controller", "base_path", opts.BasePath)
		return newSysfs(opts.BasePath, opts.FileSystem)
	}

	logger.Info("No LED support detected, using no-op controller", "board_model", boardModel)
	return newNoop(boardModel, logger)
}

// detectBoard reads the device tree model to identify the board.
func detectBoard(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return "unknown"
	}

	// Device tree model contains null bytes, trim them
	return strings.TrimRight(string(data), "\x00")
}
