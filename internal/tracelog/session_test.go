package tracelog

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSession_Phase(t *testing.T) {
	s := NewSession("Initialization", false)
	assert.Equal(t, "Initialization", s.Phase())

	s.SetPhase("Post-Installation")
	assert.Equal(t, "Post-Installation", s.Phase())
}

func TestSession_FileLoggingLatch(t *testing.T) {
	s := NewSession("", false)
	assert.False(t, s.FileLoggingDisabled())

	s.DisableFileLogging()
	s.DisableFileLogging()
	assert.True(t, s.FileLoggingDisabled())
}

func TestSession_RelaunchBanner(t *testing.T) {
	tests := []struct {
		name       string
		relaunched bool
		sections   []string
		want       []bool
	}{
		{"not relaunched", false, []string{"Initialization", "Initialization"}, []bool{false, false}},
		{"first initialization dropped", true, []string{"Initialization", "Initialization"}, []bool{true, false}},
		{"other sections keep the latch", true, []string{"Installation", "", "Initialization", "Initialization"}, []bool{false, false, true, false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession("", tt.relaunched)
			for i, section := range tt.sections {
				assert.Equal(t, tt.want[i], s.suppressRelaunchBanner(section), "call %d", i)
			}
		})
	}
}

func TestSession_Concurrent(t *testing.T) {
	s := NewSession("", true)

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		suppressed int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.SetPhase("Installation")
			_ = s.Phase()
			if s.suppressRelaunchBanner("Initialization") {
				mu.Lock()
				suppressed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, suppressed)
}
