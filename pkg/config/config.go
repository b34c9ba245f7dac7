package config

import "github.com/itiviti-cpp-master/randomized-queue-test/internal/testbench"

// Config is an alias for testbench.Config. This allows other programs to
// reference the bench configuration even though testbench itself is internal.
type Config = testbench.Config
