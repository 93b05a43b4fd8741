package trace

import (
	"strings"
	"testing"
)

func TestLoadSingleWriterSingleReader(t *testing.T) {
	src := strings.NewReader(strings.Join([]string{
		"1,START,false",
		"1,WRITE,x,1,int",
		"2,START,false",
		"2,READREQ,x,int,false",
		"2,READRSP,x,1",
	}, "\n"))

	exec, err := Load(src)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exec.Size(1) != 2 {
		t.Errorf("expected thread 1 to have 2 events, got %d", exec.Size(1))
	}
	if exec.Size(2) != 3 {
		t.Errorf("expected thread 2 to have 3 events, got %d", exec.Size(2))
	}
}

func TestLoadForkJoin(t *testing.T) {
	src := strings.NewReader(strings.Join([]string{
		"0,START,true",
		"0,FORK,1",
		"1,START,false",
		"1,WRITE,x,1,int",
		"1,FINISH",
		"0,JOIN,1",
		"0,READREQ,x,int,false",
		"0,READRSP,x,1",
	}, "\n"))

	exec, err := Load(src)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exec.Size(0) != 6 {
		t.Errorf("expected thread 0 to have 6 events (reopened after thread 1), got %d", exec.Size(0))
	}
}

func TestLoadRejectsUnrecognizedKind(t *testing.T) {
	src := strings.NewReader("1,BOGUS")
	if _, err := Load(src); err == nil {
		t.Fatal("expected an error for an unrecognized trace line kind")
	}
}

func TestLoadRejectsReadResponseWithoutRequest(t *testing.T) {
	src := strings.NewReader(strings.Join([]string{
		"1,START,false",
		"1,READRSP,x,1",
	}, "\n"))
	if _, err := Load(src); err == nil {
		t.Fatal("expected an error for a READRSP with no pending READREQ")
	}
}

func TestLoadLockUnlockMutualExclusion(t *testing.T) {
	src := strings.NewReader(strings.Join([]string{
		"1,START,false",
		"1,LOCK,m",
		"1,WRITE,x,1,int",
		"1,UNLOCK,m",
		"2,START,false",
		"2,LOCK,m",
		"2,WRITE,x,2,int",
		"2,UNLOCK,m",
	}, "\n"))

	exec, err := Load(src)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exec.Size(1) != 5 || exec.Size(2) != 5 {
		t.Errorf("expected each thread to have 5 events, got %d and %d", exec.Size(1), exec.Size(2))
	}
}
