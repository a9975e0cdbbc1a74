package workflow

import "time"

// timeNow is indirected for tests that need deterministic patch timestamps
var timeNow = time.Now
