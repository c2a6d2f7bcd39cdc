package cli

import (
	"fmt"

	"github.com/diillson/cost-of-living-go/pkg/console"
	"github.com/diillson/cost-of-living-go/pkg/version"
)

// displayWelcomeBanner exibe o banner de boas-vindas com informações de versão.
func displayWelcomeBanner(versionStr string) {
	banner := `
          /$$$$$$   /$$$$$$  /$$       /$$$$$$
         /$$__  $$ /$$__  $$| $$      |_  $$_/
        | $$  \__/| $$  \ $$| $$        | $$  
        | $$      | $$  | $$| $$        | $$  
        | $$      | $$  | $$| $$        | $$  
        | $$    $$| $$  | $$| $$        | $$  
        |  $$$$$$/|  $$$$$$/| $$$$$$$$ /$$$$$$
         \______/  \______/ |________/|______/
        `
	fmt.Println(console.BrightRed(banner))

	formattedVersion := version.FormatVersion()
	fmt.Println(console.BrightBlue(fmt.Sprintf("Cost of Living CLI (v%s)", formattedVersion)))
}

// checkLatestVersion verifica se uma versão mais recente está disponível.
func checkLatestVersion(currentVersion string) {
	version.CheckLatestVersion(currentVersion)
}
