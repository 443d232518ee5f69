package cli

import (
	"github.com/ebspulse/ebspulse/core/cli/cmd"
	"github.com/ebspulse/ebspulse/core/infrastructure/logging"
)

// Execute runs the CLI
func Execute() error {
	defer logging.CloseLogFile()
	if err := cmd.Execute(); err != nil {
		logging.New("cli").Error(err.Error())
		return err
	}
	return nil
}
