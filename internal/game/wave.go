package game

const (
	firstWaveSize = 5
	waveGrowth    = 2
)

// WaveSize is the number of agents in a wave: five in the first, two more in
// each wave after it. Waves are numbered from 1; anything lower is wave 1.
func WaveSize(wave int) int {
	if wave < 1 {
		wave = 1
	}
	return firstWaveSize + waveGrowth*(wave-1)
}
