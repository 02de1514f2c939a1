package score

import (
	"database/sql"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"git.lost.host/meutraa/receptor/internal/game"
	"git.lost.host/meutraa/receptor/internal/testdata"
)

func TestStore(t *testing.T) {
	store, err := OpenStore(filepath.Join(t.TempDir(), "scores.db"))
	if nil != err {
		t.Fatal(err)
	}
	defer store.Close()

	run := Run{
		Sum:       Hash([]byte(testdata.Data)),
		BPM:       testdata.BPM,
		Offset:    -15 * time.Millisecond,
		Lookahead: 1.5,
		Lanes:     4,
		Inputs:    []game.Input{
			{Lane: 0, Direction: game.Down, Time: 1010 * time.Millisecond},
			{Lane: 0, Direction: game.Up, Time: 1050 * time.Millisecond},
			{Lane: 3, Direction: game.Down, Time: 1500 * time.Millisecond},
		},
	}
	for i := 0; i < 2; i++ {
		if err := store.Save(&run); nil != err {
			t.Fatal(err)
		}
	}

	runs, err := store.Load(run.Sum)
	if nil != err {
		t.Fatal(err)
	}
	if len(runs) != 2 || !reflect.DeepEqual(runs[1], run) {
		t.Log("runs    ", runs)
		t.Log("expected", run)
		t.Fail()
	}

	other, err := store.Load(Hash([]byte("{}")))
	if nil != err || len(other) != 0 {
		t.Fatalf("unexpected runs %v %v", other, err)
	}
}

func TestStoreUpgrade(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.db")
	db, err := sql.Open("sqlite3", path)
	if nil != err {
		t.Fatal(err)
	}
	_, err = db.Exec(`create table replays (id integer not null primary key, sum text not null, bpm real, offset_ns integer, inputs blob);
	insert into replays(sum, bpm, offset_ns, inputs) values('old', 120, 0, '[]');`)
	db.Close()
	if nil != err {
		t.Fatal(err)
	}

	store, err := OpenStore(path)
	if nil != err {
		t.Fatal(err)
	}
	defer store.Close()
	runs, err := store.Load("old")
	if nil != err {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].BPM != 120 || runs[0].Lookahead != 0 || runs[0].Lanes != 0 {
		t.Fatalf("%+v", runs)
	}

	if err := store.Save(&Run{Sum: "old", BPM: 120, Lookahead: 2, Lanes: 6}); nil != err {
		t.Fatal(err)
	}
	runs, err = store.Load("old")
	if nil != err || len(runs) != 2 || runs[1].Lookahead != 2 || runs[1].Lanes != 6 {
		t.Fatalf("%+v %v", runs, err)
	}
}

func TestHash(t *testing.T) {
	if Hash([]byte(testdata.Data)) == Hash([]byte(testdata.Data+" ")) {
		t.Fatal("different charts share a hash")
	}
	if Hash(nil) != "47DEQpj8HBSa+/TImW+5JCeuQeRkm5NMpJWZG3hSuFU=" {
		t.Fatal(Hash(nil))
	}
}
