package msg

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// ProgressBar renders "done/total" progress of a batch of build steps on a
// single terminal line. It is safe for concurrent use.
type ProgressBar struct {
	Total      int
	Current    int
	Indent     int
	Start      time.Time
	W          io.Writer
	mu         sync.Mutex
	lastLabel  string
	lastWidth  int
	throbIndex int
}

var throbbers = []rune{'|', '/', '-', '\\'}

func NewProgressBar(total int, indent int, w io.Writer) *ProgressBar {
	return &ProgressBar{
		Total:  total,
		Indent: indent,
		Start:  time.Now(),
		W:      w,
	}
}

// Step marks one more step as done and shows label next to the bar
func (pb *ProgressBar) Step(label string) {
	pb.mu.Lock()
	defer pb.mu.Unlock()

	pb.Current = min(pb.Current+1, max(pb.Total, 1))
	pb.lastLabel = label
	pb.print(false)
}

// Println prints a full line above the bar, e.g. a compiler warning
func (pb *ProgressBar) Println(s string) {
	pb.mu.Lock()
	defer pb.mu.Unlock()

	fmt.Fprintf(pb.W, "\r%s\r%s\n", strings.Repeat(" ", pb.lastWidth), strings.TrimRight(s, "\r\n"))
	pb.print(false)
}

func (pb *ProgressBar) print(finish bool) {
	width := 30
	percent := float64(pb.Current) / float64(max(pb.Total, 1))
	if finish {
		percent = 1
	}

	filled := min(int(percent*float64(width)), width)
	bar := strings.Repeat("█", filled) + strings.Repeat("-", width-filled)

	throb := throbbers[pb.throbIndex%len(throbbers)]
	pb.throbIndex++
	if finish {
		throb = ' '
	}

	line := fmt.Sprintf("%s%6.f%% [%s] %c %d/%d %s",
		strings.Repeat(" ", pb.Indent),
		percent*100,
		bar,
		throb,
		pb.Current,
		pb.Total,
		pb.lastLabel,
	)
	// pad over the remains of a longer previous line
	pad := max(pb.lastWidth-len(line), 0)
	fmt.Fprintf(pb.W, "\r%s%s", line, strings.Repeat(" ", pad))
	pb.lastWidth = len(line)
}

func (pb *ProgressBar) Finish() {
	pb.mu.Lock()
	defer pb.mu.Unlock()

	pb.lastLabel = fmt.Sprintf("(%s)", time.Since(pb.Start).Round(time.Millisecond))
	pb.print(true)
	fmt.Fprintln(pb.W)
}
