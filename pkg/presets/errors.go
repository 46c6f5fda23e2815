// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package presets

import "fmt"

// ErrInvalidGroup is returned when a custom group is invalid
type ErrInvalidGroup struct {
	Name   string
	Reason string
}

func (e ErrInvalidGroup) Error() string {
	return fmt.Sprintf("invalid DNS group %q: %s", e.Name, e.Reason)
}
