package score

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"git.lost.host/meutraa/receptor/internal/game"
	_ "github.com/mattn/go-sqlite3"
)

type DefaultStore struct {
	db *sql.DB
}

// LaneInputs is every press and release of one lane, the form inputs are
// stored in.
type LaneInputs struct {
	Lane int
	Down []time.Duration `json:",omitempty"`
	Up   []time.Duration `json:",omitempty"`
}

func compactInputs(inputs []game.Input) []LaneInputs {
	lanes := 0
	for _, i := range inputs {
		if i.Lane+1 > lanes {
			lanes = i.Lane + 1
		}
	}
	ins := make([]LaneInputs, lanes)
	for l := range ins {
		ins[l].Lane = l
	}
	for _, i := range inputs {
		if i.Lane < 0 {
			continue
		}
		if i.Direction == game.Up {
			ins[i.Lane].Up = append(ins[i.Lane].Up, i.Time)
		} else {
			ins[i.Lane].Down = append(ins[i.Lane].Down, i.Time)
		}
	}
	return ins
}

// uncompactInputs restores time order. Equal times keep lane order, presses
// before releases.
func uncompactInputs(inputs []LaneInputs) []game.Input {
	ins := []game.Input{}
	for _, l := range inputs {
		for _, t := range l.Down {
			ins = append(ins, game.Input{Lane: l.Lane, Direction: game.Down, Time: t})
		}
		for _, t := range l.Up {
			ins = append(ins, game.Input{Lane: l.Lane, Direction: game.Up, Time: t})
		}
	}
	sort.SliceStable(ins, func(i, j int) bool {
		return ins[i].Time < ins[j].Time
	})
	return ins
}

func OpenStore(path string) (*DefaultStore, error) {
	db, err := sql.Open("sqlite3", path)
	if nil != err {
		return nil, err
	}

	initStatement := `
	create table if not exists replays
	  (
		  id integer not null primary key,
		  sum text not null,
		  bpm real,
		  offset_ns integer,
		  lookahead real,
		  lanes integer,
		  inputs blob
	  );
	create index if not exists replays_sum on replays(sum);
	`
	if _, err = db.Exec(initStatement); nil != err {
		db.Close()
		return nil, fmt.Errorf("unable to create replay table: %w", err)
	}
	if err := addColumns(db, "lookahead real", "lanes integer"); nil != err {
		db.Close()
		return nil, fmt.Errorf("unable to upgrade replay table: %w", err)
	}
	return &DefaultStore{db: db}, nil
}

// addColumns upgrades a table created before the given columns existed.
func addColumns(db *sql.DB, columns ...string) error {
	for _, column := range columns {
		_, err := db.Exec("alter table replays add column " + column)
		if nil != err && !strings.Contains(err.Error(), "duplicate column") {
			return err
		}
	}
	return nil
}

func (s *DefaultStore) Close() error {
	if nil == s.db {
		return nil
	}
	return s.db.Close()
}

func (s *DefaultStore) Save(run *Run) error {
	data, err := json.Marshal(compactInputs(run.Inputs))
	if nil != err {
		return fmt.Errorf("unable to marshal inputs: %w", err)
	}
	_, err = s.db.Exec("insert into replays(sum, bpm, offset_ns, lookahead, lanes, inputs) values(?, ?, ?, ?, ?, ?)",
		run.Sum, run.BPM, int64(run.Offset), run.Lookahead, run.Lanes, data)
	if nil != err {
		return fmt.Errorf("unable to save replay: %w", err)
	}
	return nil
}

func (s *DefaultStore) Load(sum string) ([]Run, error) {
	rows, err := s.db.Query("select sum, bpm, offset_ns, lookahead, lanes, inputs from replays where sum = ? order by id", sum)
	if nil != err {
		return nil, fmt.Errorf("unable to load replays: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var (
			run       Run
			offset    int64
			lookahead sql.NullFloat64
			lanes     sql.NullInt64
			data      []byte
		)
		if err := rows.Scan(&run.Sum, &run.BPM, &offset, &lookahead, &lanes, &data); nil != err {
			return nil, err
		}
		var laneInputs []LaneInputs
		if err := json.Unmarshal(data, &laneInputs); nil != err {
			log.Println("unable to unmarshal replay inputs", err)
			continue
		}
		run.Offset = time.Duration(offset)
		run.Lookahead = lookahead.Float64
		run.Lanes = int(lanes.Int64)
		run.Inputs = uncompactInputs(laneInputs)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
