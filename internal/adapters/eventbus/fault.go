package eventbus

import (
	"fmt"
	"runtime"
	"strings"
)

// faultLocation resolves, best effort, the source location of the frame
// that panicked. It must be called from inside the deferred recover:
// at that point the stack still contains the panicking frame, sitting
// just past the runtime's panic machinery.
// Returns "unknown" when no plausible frame is found.
func faultLocation() string {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(1, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	seenPanic := false
	for {
		frame, more := frames.Next()

		if strings.HasPrefix(frame.Function, "runtime.") {
			// gopanic is the marker; the frames after it (skipping
			// helpers like sigpanic) belong to the handler.
			if frame.Function == "runtime.gopanic" {
				seenPanic = true
			}
		} else if seenPanic {
			return fmt.Sprintf("%s (%s:%d)", frame.Function, frame.File, frame.Line)
		}

		if !more {
			return "unknown"
		}
	}
}
