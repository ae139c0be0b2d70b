package models

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeacherKeepsUnknownFields(t *testing.T) {
	raw := `{"id":"17","name":"Aziz","phone":"+998901112233","subject":"Math","status":"active","experience":5,"tags":["ielts"]}`

	var teacher Teacher
	require.NoError(t, json.Unmarshal([]byte(raw), &teacher))
	assert.Equal(t, ID(17), teacher.ID)
	assert.Equal(t, "Aziz", teacher.Name)
	assert.JSONEq(t, `5`, string(teacher.Extras["experience"]))

	out, err := json.Marshal(teacher)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":17,"name":"Aziz","phone":"+998901112233","subject":"Math","status":"active","experience":5,"tags":["ielts"]}`, string(out))
}

func TestEncodeRecordOnEmptyObject(t *testing.T) {
	type empty struct{}
	out, err := encodeRecord(empty{}, Extras{"a": json.RawMessage(`1`), "b": json.RawMessage(`"x"`)})
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"b":"x"}`, string(out))
}

func TestApplyPatchOverlaysAndSkipsImmutable(t *testing.T) {
	current := Group{ID: 1, Name: "G1", TeacherID: 5, Capacity: 2, Status: "upcoming"}
	current.SetRoster([]ID{10})

	patch := Patch{
		"id":        json.RawMessage(`99`),
		"students":  json.RawMessage(`[1,2,3]`),
		"name":      json.RawMessage(`"G1-evening"`),
		"capacity":  json.RawMessage(`"4"`),
		"room":      json.RawMessage(`"204"`),
		"startTime": json.RawMessage(`"18:00"`),
	}
	updated, err := ApplyPatch(current, patch, "id", "students", "studentsCount")
	require.NoError(t, err)

	assert.Equal(t, ID(1), updated.ID)
	assert.Equal(t, []ID{10}, updated.Students)
	assert.Equal(t, "G1-evening", updated.Name)
	assert.Equal(t, Count(4), updated.Capacity)
	assert.Equal(t, "18:00", updated.StartTime)
	assert.JSONEq(t, `"204"`, string(updated.Extras["room"]))
}

func TestApplyPatchRejectsMistypedField(t *testing.T) {
	_, err := ApplyPatch(Teacher{ID: 1, Name: "Aziz"}, Patch{"name": json.RawMessage(`{"first":"A"}`)})
	require.Error(t, err)
	var fieldErr *FieldError
	assert.True(t, errors.As(err, &fieldErr))

	_, err = ApplyPatch(Payment{ID: 1}, Patch{"amount": json.RawMessage(`"abc"`)})
	assert.True(t, errors.As(err, &fieldErr))
}

func TestPatchTake(t *testing.T) {
	patch := Patch{"studentIds": json.RawMessage(`[1,"2"]`), "name": json.RawMessage(`"G"`)}

	var ids []ID
	ok, err := patch.Take("studentIds", &ids)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []ID{1, 2}, ids)
	assert.False(t, patch.Has("studentIds"))

	ok, err = patch.Take("missing", &ids)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPublicUserHidesPassword(t *testing.T) {
	user := User{ID: 3, Username: "branch1", Password: "secret", Role: RoleBranch, BranchID: ID(8).Ptr()}
	out, err := json.Marshal(user.Public())
	require.NoError(t, err)
	assert.NotContains(t, string(out), "password")
	assert.NotContains(t, string(out), "secret")
	assert.Contains(t, string(out), `"branchId":8`)
}

func TestGroupDetailEmbedsRecords(t *testing.T) {
	group := Group{ID: 1, Name: "G1", TeacherID: 5, Capacity: 2}
	detail := GroupDetail{Group: group, TeacherName: "Teacher not found"}

	out, err := json.Marshal(detail)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"name":"G1","teacherId":5,"startTime":"","endTime":"","capacity":2,"status":"",
		"students":[],"studentsCount":0,"teacherName":"Teacher not found","teacher":null}`, string(out))
}

func TestStudentHelpers(t *testing.T) {
	s := Student{Name: "Ali", FirstName: "Ali", LastName: "Valiyev", Balance: 100}
	assert.Equal(t, "Ali Valiyev", s.DisplayName())
	assert.Equal(t, "Bob", Student{Name: "Bob"}.DisplayName())

	s.SettleStatus()
	assert.Equal(t, PaymentStatusUnpaid, s.PaymentStatus)
	s.Balance = 0
	s.SettleStatus()
	assert.Equal(t, PaymentStatusPaid, s.PaymentStatus)

	s.Assign(Group{ID: 4, Name: "G4"})
	assert.True(t, s.InGroup(4))
	assert.Equal(t, "G4", *s.Group)
	s.Unassign()
	assert.False(t, s.InGroup(4))
}

func TestNumericDecoding(t *testing.T) {
	var n Number
	require.NoError(t, json.Unmarshal([]byte(`"150.5"`), &n))
	assert.Equal(t, Number(150.5), n)

	var id ID
	assert.Error(t, json.Unmarshal([]byte(`1.5`), &id))
	assert.Error(t, json.Unmarshal([]byte(`"x"`), &id))

	require.NoError(t, json.Unmarshal([]byte(`9007199254740993`), &id))
	assert.Equal(t, ID(9007199254740993), id)
	require.NoError(t, json.Unmarshal([]byte(`"9223372036854775807"`), &id))
	assert.Equal(t, ID(math.MaxInt64), id)
	require.NoError(t, json.Unmarshal([]byte(`1.7e3`), &id))
	assert.Equal(t, ID(1700), id)
	assert.Error(t, json.Unmarshal([]byte(`99999999999999999999`), &id))
	assert.Error(t, json.Unmarshal([]byte(`true`), &id))

	parsed, err := ParseID("1719400000000")
	require.NoError(t, err)
	assert.Equal(t, ID(1719400000000), parsed)
	_, err = ParseID("abc")
	assert.Error(t, err)
}
