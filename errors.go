// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package lawn

import (
	"errors"
)

// ErrInvalidTTL is returned by Add when the ttl is not strictly positive.
var ErrInvalidTTL = errors.New("lawn: ttl must be positive")
