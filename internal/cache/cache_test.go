package cache

import (
	"strings"
	"testing"

	"github.com/civic-records/registry-search/internal/query"
)

func TestBuildKeyStable(t *testing.T) {
	c := query.Criteria{Surname: "R", Province: "45", Year: "1970"}
	if buildKey(c) != buildKey(c) {
		t.Error("identical criteria produced different keys")
	}
}

func TestBuildKeyDistinguishesCriteria(t *testing.T) {
	keys := map[string]query.Criteria{}
	for _, c := range []query.Criteria{
		{},
		{Surname: "R"},
		{Surname: "r"},
		{Province: "45"},
		{Surname: "R", Province: "45"},
		{Surname: "R", Year: "45"},
		{Year: "1970"},
	} {
		key := buildKey(c)
		if prev, dup := keys[key]; dup {
			t.Errorf("criteria %+v and %+v share key %s", prev, c, key)
		}
		keys[key] = c
	}
}

func TestBuildKeyPrefix(t *testing.T) {
	if key := buildKey(query.Criteria{Surname: "R"}); !strings.HasPrefix(key, keyPrefix) {
		t.Errorf("key %s lacks prefix %s", key, keyPrefix)
	}
}
