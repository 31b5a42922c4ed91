package driver

import (
	"errors"
	"testing"
)

func TestTranslateReplyPrefixes(t *testing.T) {
	cases := []struct {
		msg  string
		want error
	}{
		{"WRONGTYPE Operation against a key holding the wrong kind of value", ErrWrongType},
		{"LOADING Redis is loading the dataset in memory", ErrLoading},
		{"READONLY You can't write against a read only replica.", ErrReadOnly},
		{"CLUSTERDOWN The cluster is down", ErrClusterDown},
		{"EXECABORT Transaction discarded because of previous errors.", ErrTxAborted},
	}
	for _, c := range cases {
		got := TranslateReply(c.msg)
		if !errors.Is(got, c.want) {
			t.Fatalf("TranslateReply(%q) = %v, want %v", c.msg, got, c.want)
		}
	}

	got := TranslateReply("ERR unknown command 'FOO'")
	if got == nil {
		t.Fatal("expected an error for unknown reply")
	}
}

func TestWrapCommand(t *testing.T) {
	if WrapCommand("get", nil) != nil {
		t.Fatal("nil error must pass through")
	}
	if !errors.Is(WrapCommand("get", ErrNil), ErrNil) {
		t.Fatal("ErrNil must pass through unwrapped")
	}

	err := WrapCommand("hset", ErrTimeout)
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected *CommandError, got %T", err)
	}
	if cmdErr.Cmd != "hset" {
		t.Fatalf("expected command hset, got %q", cmdErr.Cmd)
	}
	if !IsTimeout(err) {
		t.Fatal("wrapped error must remain a timeout")
	}
}
