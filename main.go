package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"git.lost.host/meutraa/receptor/internal/audio"
	"git.lost.host/meutraa/receptor/internal/config"
	"git.lost.host/meutraa/receptor/internal/game"
	"git.lost.host/meutraa/receptor/internal/parser"
	"git.lost.host/meutraa/receptor/internal/score"
	"git.lost.host/meutraa/receptor/internal/session"
	"github.com/dustin/go-humanize"
)

var ErrNoChart = errors.New("unable to find a .json chart in the given directory")

func main() {
	cfg, err := config.Parse(os.Args[1:])
	if nil != err {
		log.Fatalln(err)
	}
	if err := run(cfg); nil != err {
		log.Fatalln(err)
	}
}

func run(cfg *config.Config) error {
	switch cfg.Command {
	case "check":
		return check(cfg)
	case "history":
		return history(cfg)
	}

	p, err := NewProgram(cfg)
	if nil != err {
		return err
	}
	if cfg.Command == "edit" {
		return p.Edit()
	}
	return p.Play()
}

// Song is the chart and audio picked from a song directory.
type Song struct {
	Chart string
	Audio string // Empty when the directory has no playable audio
}

// findSong picks the chart called name (or the first chart by file name) and
// the first audio file the audio package can decode.
func findSong(dir, name string) (Song, error) {
	var (
		song   Song
		charts []string
		audios = map[string]string{}
	)
	if err := filepath.Walk(dir, func(p string, info os.FileInfo, err error) error {
		if nil != err {
			return err
		}
		if info.IsDir() {
			if p != dir {
				return filepath.SkipDir
			}
			return nil
		}
		ext := strings.ToLower(path.Ext(info.Name()))
		if ext == ".json" {
			charts = append(charts, p)
			return nil
		}
		if _, ok := audios[ext]; !ok {
			audios[ext] = p
		}
		return nil
	}); nil != err {
		return song, fmt.Errorf("unable to walk song directory: %w", err)
	}

	sort.Strings(charts)
	for _, c := range charts {
		base := filepath.Base(c)
		if name == "" || name == base || name+".json" == base {
			song.Chart = c
			break
		}
	}
	if song.Chart == "" {
		if name != "" {
			return song, fmt.Errorf("chart %q: %w", name, ErrNoChart)
		}
		return song, ErrNoChart
	}

	for _, ext := range audio.Extensions {
		if a, ok := audios[ext]; ok {
			song.Audio = a
			break
		}
	}
	return song, nil
}

// songLength reads the length of the audio without playing it.
func songLength(file string) time.Duration {
	if file == "" {
		return 0
	}
	device, err := audio.Open(file)
	if nil != err {
		logWarn("unable to read %v, length taken from the chart: %v", file, err)
		return 0
	}
	defer device.Close()
	return device.Length()
}

func check(cfg *config.Config) error {
	p := parser.DefaultParser{Lanes: cfg.Lanes}
	results, err := p.CheckDir(cfg.Directory, cfg.Workers)
	if nil != err {
		return err
	}

	failed := 0
	for _, r := range results {
		if nil != r.Err {
			failed++
			fmt.Printf("FAIL  %v: %v\n", r.File, r.Err)
			continue
		}
		fmt.Printf("ok    %v  %v notes  %v holds\n", r.File, humanize.Comma(int64(r.Notes)), humanize.Comma(int64(r.Holds)))
	}
	fmt.Printf("%v of %v charts valid\n", humanize.Comma(int64(len(results)-failed)), humanize.Comma(int64(len(results))))
	if failed > 0 {
		return fmt.Errorf("%d charts failed to load", failed)
	}
	return nil
}

func history(cfg *config.Config) error {
	song, err := findSong(cfg.Directory, cfg.Chart)
	if nil != err {
		return err
	}
	data, err := os.ReadFile(song.Chart)
	if nil != err {
		return err
	}
	if _, err := session.LoadChart(data, cfg.Lanes); nil != err {
		return err
	}

	store, err := score.OpenStore(cfg.Database)
	if nil != err {
		return err
	}
	defer store.Close()

	runs, err := store.Load(score.Hash(data))
	if nil != err {
		return err
	}
	if len(runs) == 0 {
		fmt.Printf("no runs of %v\n", song.Chart)
		return nil
	}

	length := cfg.Length
	if length == 0 {
		length = songLength(song.Audio)
	}
	for i, run := range runs {
		lanes := cfg.Lanes
		if run.Lanes > 0 {
			lanes = run.Lanes
		}
		chart, err := session.LoadChart(data, lanes)
		if nil != err {
			return err
		}
		sc := cfg.Session()
		sc.Length = length

		s, err := session.ReplayRun(chart, sc, &run)
		if nil != err {
			logWarn("unable to replay run %d: %v", i+1, err)
			continue
		}
		st := s.State()
		fmt.Printf("%3d) %6.2f%%  ", i+1, 100*st.Score)
		for r, c := range st.Accuracy.Counts {
			fmt.Printf("%v %v  ", game.Rank(r), humanize.Comma(int64(c)))
		}
		fmt.Printf("mean %v  stdev %v\n", st.Stats.Mean().Round(time.Millisecond/10), st.Stats.StdDev().Round(time.Millisecond/10))
	}
	return nil
}
