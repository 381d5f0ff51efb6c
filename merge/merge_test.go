package merge_test

import (
	"testing"

	"github.com/Sjoshi-TYCS/witsml"
	"github.com/Sjoshi-TYCS/witsml/document"
	"github.com/Sjoshi-TYCS/witsml/merge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type station struct {
	uid string
	md  float64
}

func (s station) UID() string            { return s.uid }
func (s station) Index() (float64, bool) { return s.md, true }

func replace(_, upd station) station { return upd }

func TestMerge(t *testing.T) {
	t.Run("ReplaceAndResort", func(t *testing.T) {
		existing := []station{{"s1", 5}, {"s2", 8}}
		update := []station{{"s1", 10}}

		got, err := merge.Merge(existing, update, true, "trajectoryStation", replace)
		require.NoError(t, err)
		assert.Equal(t, []station{{"s2", 8}, {"s1", 10}}, got)
		// existing is not modified.
		assert.Equal(t, station{"s1", 5}, existing[0])
	})

	t.Run("Insert", func(t *testing.T) {
		got, err := merge.Merge([]station{{"s1", 5}}, []station{{"s0", 1}, {"s9", 9}}, true, "trajectoryStation", replace)
		require.NoError(t, err)
		assert.Equal(t, []station{{"s0", 1}, {"s1", 5}, {"s9", 9}}, got)
	})

	t.Run("Decreasing", func(t *testing.T) {
		got, err := merge.Merge([]station{{"a", 5}}, []station{{"b", 7}, {"c", 6}}, false, "trajectoryStation", replace)
		require.NoError(t, err)
		assert.Equal(t, []station{{"b", 7}, {"c", 6}, {"a", 5}}, got)
	})

	t.Run("DuplicateUid", func(t *testing.T) {
		_, err := merge.Merge(nil, []station{{"a", 1}, {"a", 2}}, true, "trajectoryStation", replace)
		assert.Equal(t, witsml.ErrorCodeChildUidNotUnique, witsml.ErrorCodeOf(err))
	})

	t.Run("EmptyUid", func(t *testing.T) {
		_, err := merge.Merge([]station{{"a", 1}}, []station{{"b", 2}, {"", 3}}, true, "trajectoryStation", replace)
		assert.Equal(t, witsml.ErrorCodeMissingElementUidForUpdate, witsml.ErrorCodeOf(err))
	})
}

var stationSpec = &merge.Spec{
	Element: "trajectoryStation",
	UIDAttr: "uid",
	Index:   "md",
	Min:     "mdMn",
	Max:     "mdMx",
}

func mustParse(t *testing.T, s string) *document.Element {
	t.Helper()
	el, err := document.ParseString(s)
	require.NoError(t, err)
	return el
}

func uids(parent *document.Element) []string {
	var out []string
	for _, el := range parent.ChildrenNamed("trajectoryStation") {
		out = append(out, el.Attr("uid"))
	}
	return out
}

func TestElements(t *testing.T) {
	t.Run("ReversedUpdate", func(t *testing.T) {
		traj := mustParse(t, `<trajectory uid="t1"><name>T</name>
			<trajectoryStation uid="s1"><md uom="ft">100</md><incl uom="dega">1</incl></trajectoryStation>
			<trajectoryStation uid="s2"><md uom="ft">200</md></trajectoryStation>
			<trajectoryStation uid="s3"><md uom="ft">300</md></trajectoryStation>
			<trajectoryStation uid="s4"><md uom="ft">400</md></trajectoryStation>
			<trajectoryStation uid="s5"><md uom="ft">500</md></trajectoryStation>
		</trajectory>`)
		merge.Order(traj, stationSpec, true)

		// Four new stations submitted in reverse order plus one retained original.
		update := mustParse(t, `<trajectory uid="t1">
			<trajectoryStation uid="n4"><md uom="ft">450</md></trajectoryStation>
			<trajectoryStation uid="n3"><md uom="ft">350</md></trajectoryStation>
			<trajectoryStation uid="s1"><md uom="ft">50</md></trajectoryStation>
			<trajectoryStation uid="n2"><md uom="ft">250</md></trajectoryStation>
			<trajectoryStation uid="n1"><md uom="ft">150</md></trajectoryStation>
		</trajectory>`)

		require.NoError(t, merge.Elements(traj, update, stationSpec, true))
		assert.Equal(t, []string{"s1", "n1", "s2", "n2", "s3", "n3", "s4", "n4", "s5"}, uids(traj))
		assert.Equal(t, "50", traj.ChildText("mdMn"))
		assert.Equal(t, "500", traj.ChildText("mdMx"))
		assert.Equal(t, "ft", traj.Child("mdMn").Attr("uom"))

		// The merged station keeps fields the update did not name.
		s1 := traj.ChildrenNamed("trajectoryStation")[0]
		assert.Equal(t, "1", s1.ChildText("incl"))
		assert.Equal(t, "T", traj.ChildText("name"))
	})

	t.Run("Errors", func(t *testing.T) {
		traj := mustParse(t, `<trajectory><trajectoryStation uid="s1"><md>1</md></trajectoryStation></trajectory>`)

		err := merge.Elements(traj, mustParse(t, `<trajectory><trajectoryStation><md>2</md></trajectoryStation></trajectory>`), stationSpec, true)
		assert.Equal(t, witsml.ErrorCodeMissingElementUidForUpdate, witsml.ErrorCodeOf(err))

		err = merge.Elements(traj, mustParse(t, `<trajectory><trajectoryStation uid="a"/><trajectoryStation uid="a"/></trajectory>`), stationSpec, true)
		assert.Equal(t, witsml.ErrorCodeChildUidNotUnique, witsml.ErrorCodeOf(err))

		// Failed merges leave the parent untouched.
		assert.Equal(t, []string{"s1"}, uids(traj))
	})

	t.Run("Unindexed", func(t *testing.T) {
		spec := &merge.Spec{Element: "logCurveInfo", UIDAttr: "uid"}
		log := mustParse(t, `<log><logCurveInfo uid="MD"/><logCurveInfo uid="GR"/></log>`)
		update := mustParse(t, `<log><logCurveInfo uid="ROP"><unit>m/h</unit></logCurveInfo><logCurveInfo uid="GR"><unit>gAPI</unit></logCurveInfo></log>`)
		require.NoError(t, merge.Elements(log, update, spec, true))

		curves := log.ChildrenNamed("logCurveInfo")
		require.Len(t, curves, 3)
		assert.Equal(t, "MD", curves[0].Attr("uid"))
		assert.Equal(t, "gAPI", curves[1].ChildText("unit"))
		assert.Equal(t, "ROP", curves[2].Attr("uid"))
	})
}

func TestDelete(t *testing.T) {
	traj := mustParse(t, `<trajectory>
		<trajectoryStation uid="s1"><md>1</md></trajectoryStation>
		<trajectoryStation uid="s2"><md>2</md></trajectoryStation>
		<trajectoryStation uid="s3"><md>3</md></trajectoryStation>
		<mdMn>1</mdMn><mdMx>3</mdMx>
	</trajectory>`)

	require.NoError(t, merge.Delete(traj, mustParse(t, `<trajectory><trajectoryStation uid="s3"/></trajectory>`), stationSpec))
	assert.Equal(t, []string{"s1", "s2"}, uids(traj))
	assert.Equal(t, "2", traj.ChildText("mdMx"))

	err := merge.Delete(traj, mustParse(t, `<trajectory><trajectoryStation/></trajectory>`), stationSpec)
	assert.Equal(t, witsml.ErrorCodeMissingElementUidForDelete, witsml.ErrorCodeOf(err))

	require.NoError(t, merge.Delete(traj, mustParse(t, `<trajectory><trajectoryStation uid="s1"/><trajectoryStation uid="s2"/></trajectory>`), stationSpec))
	assert.Nil(t, traj.Child("mdMn"))
	assert.Nil(t, traj.Child("mdMx"))
}
