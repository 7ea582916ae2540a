package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/kballard/go-shellquote"
)

type PartitionType string

const (
	PartitionCore PartitionType = "core"
	PartitionNode PartitionType = "node"
)

// SlurmInfo contains info needed to launch a job on a SLURM cluster
type SlurmInfo struct {
	Project   string
	Partition PartitionType
	Cores     int
	Time      time.Duration
	JobName   string
	Threads   int
}

// AsArgs returns the salloc + srun arguments to prepend to a command
func (si SlurmInfo) AsArgs() []string {
	return []string{
		"salloc",
		"-A", si.Project,
		"-p", string(si.Partition),
		"-n", strconv.Itoa(si.Cores),
		"-t", fmtDuration(si.Time),
		"-J", si.JobName,
		"srun", "-n", "1",
		"-c", strconv.Itoa(si.Threads),
	}
}

// AsSallocString returns the prefix as a shell-quoted string, ending in a
// space so that a command can be appended directly
func (si SlurmInfo) AsSallocString() string {
	return shellquote.Join(si.AsArgs()...) + " "
}

// fmtDuration formats t the way SLURM's -t option takes it: D-HH:MM:SS
func fmtDuration(t time.Duration) string {
	t = t.Round(time.Second)
	d := t / (24 * time.Hour)
	t -= d * (24 * time.Hour)
	h := t / time.Hour
	t -= h * time.Hour
	m := t / time.Minute
	t -= m * time.Minute
	s := t / time.Second
	return fmt.Sprintf("%d-%02d:%02d:%02d", d, h, m, s)
}
