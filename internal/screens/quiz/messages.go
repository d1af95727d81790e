package quiz

import "time"

// timerTickMsg is sent every second to re-check the countdown.
type timerTickMsg time.Time
