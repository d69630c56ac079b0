// Copyright (c) 2025 retroterm
// GoBBS - text-mode bulletin board system
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// colorPalette defines the banner colors. Classic amber-on-black BBS look.
const (
	colorAmber  = lipgloss.Color("214")
	colorSubtle = lipgloss.Color("240")
)

var (
	bannerStyle = lipgloss.NewStyle().
			Foreground(colorAmber).
			Bold(true)

	taglineStyle = lipgloss.NewStyle().Foreground(colorSubtle)
)

const bannerArt = `
  ____       ____  ____ ____
 / ___| ___ | __ )| __ ) ___|
| |  _ / _ \|  _ \|  _ \___ \
| |_| | (_) | |_) | |_) |__) |
 \____|\___/|____/|____/____/
`

// printBanner prints the welcome screen shown when the shell starts.
func printBanner() {
	fmt.Println(bannerStyle.Render(bannerArt))
	fmt.Println(taglineStyle.Render("Welcome to GoBBS, a text-mode bulletin board."))
	fmt.Println(taglineStyle.Render("Commands: register, login, help, quit"))
	fmt.Println()
}
