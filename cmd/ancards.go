/*
Copyright © 2024 Ryan Painter paintersrp@gmail.com

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/Paintersrp/ancards/internal/config"
	"github.com/Paintersrp/ancards/internal/logging"
	"github.com/Paintersrp/ancards/pkg/cmd/root"
)

func Execute() {
	rootCmd := root.NewCmdRoot()
	err := rootCmd.Execute()
	_ = logging.Close()

	if err == nil {
		return
	}

	var initErr *config.ConfigInitError
	if errors.As(err, &initErr) {
		fmt.Fprintf(os.Stderr, "ancards is not configured yet: %v\nRun \"ancards init\" to set it up.\n", initErr)
	}
	os.Exit(1)
}
