package mapper

import (
	"encoding/json"
	"math"
	"strconv"
	"testing"

	"github.com/FedyaB/restapi-server-spbstu/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapEmployees_LinksAndNoCredentials(t *testing.T) {
	list := []model.Employee{{
		ID: 1, Name: "Ted", Surname: "Smith", Position: model.PositionMiddle,
		Birthday: "01/01/1990", Salary: 50000,
		Credentials: model.Credentials{Salt: "aa", Hash: "bb"},
	}}

	body, err := json.Marshal(WrapEmployees(list, 2, "Smith"))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(body, &got))
	links := got["_links"].(map[string]any)
	assert.Equal(t, "/employees?filter=Smith&page=3", links["next"].(map[string]any)["href"])
	assert.Equal(t, "/employees?filter=Smith&page=2", links["self"].(map[string]any)["href"])
	assert.Equal(t, true, links["employee:put"].(map[string]any)["templated"])
	assert.Equal(t, "employee", links["employees"].(map[string]any)["name"])

	items := got["_embedded"].(map[string]any)["employees"].([]any)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	assert.Equal(t, "Ted", item["name"])
	assert.NotContains(t, item, "salt")
	assert.NotContains(t, item, "hash")
	assert.NotContains(t, item, "password")
}

func TestWrapEmployees_EmptyPageIsEmptyArray(t *testing.T) {
	body, err := json.Marshal(WrapEmployees(nil, 5, ""))
	require.NoError(t, err)
	assert.Contains(t, string(body), `"employees":[]`)
	assert.Contains(t, string(body), `/employees?page=6`)
}

func TestWrapEmployees_LastPageHasNoNext(t *testing.T) {
	list := WrapEmployees(nil, math.MaxInt, "Ted")
	assert.NotContains(t, list.Links, "next")
	assert.Equal(t, "/employees?filter=Ted&page="+strconv.Itoa(math.MaxInt), list.Links["self"].Href)

	list = WrapEmployees(nil, math.MaxInt-1, "")
	assert.Equal(t, "/employees?page="+strconv.Itoa(math.MaxInt), list.Links["next"].Href)
}

func TestWrapSingleEmployee(t *testing.T) {
	e := model.Employee{ID: 7, Name: "Ted", Credentials: model.Credentials{Salt: "aa", Hash: "bb"}}

	body, err := json.Marshal(WrapSingleEmployee(e))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, float64(7), got["id"])
	assert.NotContains(t, got, "salt")
	links := got["_links"].(map[string]any)
	for _, rel := range []string{"self", "put", "delete"} {
		assert.Equal(t, "/employees/7", links[rel].(map[string]any)["href"], rel)
	}
}

func TestWrapEmployeeRefAndDeletion(t *testing.T) {
	ref := WrapEmployeeRef(model.Key{ID: 3})
	assert.Equal(t, int64(3), ref.ID)
	assert.Equal(t, "/employees/3", ref.Links["self"].Href)

	del := WrapEmployeeDeletion(model.Key{ID: 3})
	assert.Equal(t, Links{"self": {Href: "/employees/3"}}, del.Links)
}
