// Copyright (c) 2025 retroterm
// GoBBS - text-mode bulletin board system
// This source code is licensed under the MIT license found in the LICENSE file.

package bbs

// anonymousOrder and authenticatedOrder fix the display order of verbs in
// usage listings; map iteration order would shuffle them per run.
var (
	anonymousOrder     = []string{"register", "login", "exit", "quit"}
	authenticatedOrder = []string{"post", "read", "switch", "send", "inbox", "logout", "quit", "exit"}
	helpTopicOrder     = []string{"register", "login", "post", "read", "switch", "send", "inbox", "logout", "help", "quit", "exit"}
)

// CommandsFor returns the verbs valid in the given state, in display order.
// help is omitted: the listings are themselves help output.
func CommandsFor(state State) []string {
	if state == StateAuthenticated {
		return authenticatedOrder
	}
	return anonymousOrder
}

// KnownCommands returns every verb that has a help page, in display order.
func KnownCommands() []string {
	return helpTopicOrder
}

// IsHelpTopic reports whether a verb has a help page. The presentation
// layer resolves the page text itself (it owns localization); asking for an
// unknown topic should list KnownCommands instead.
func IsHelpTopic(verb string) bool {
	_, ok := commandStates[verb]
	return ok
}
