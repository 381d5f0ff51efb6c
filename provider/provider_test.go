package provider_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Sjoshi-TYCS/witsml"
	"github.com/Sjoshi-TYCS/witsml/authz"
	"github.com/Sjoshi-TYCS/witsml/document"
	"github.com/Sjoshi-TYCS/witsml/kinds"
	"github.com/Sjoshi-TYCS/witsml/provider"
	"github.com/Sjoshi-TYCS/witsml/query"
	"github.com/Sjoshi-TYCS/witsml/storage/inmem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	wellXML     = `<well uid="w1"><name>Well 01</name><timeZone>-06:00</timeZone></well>`
	wellboreXML = `<wellbore uid="b1" uidWell="w1"><nameWell>Well 01</nameWell><name>Wellbore 01</name></wellbore>`
)

// env is a set of providers sharing one in-memory adapter.
type env struct {
	adapter    *inmem.Adapter
	well       *provider.Provider
	wellbore   *provider.Provider
	trajectory *provider.Provider
	log        *provider.Provider
	now        time.Time
	uids       int
}

func newEnv(t *testing.T, opts ...provider.ProviderOption) *env {
	t.Helper()
	e := &env{
		adapter: inmem.NewAdapter(nil),
		now:     time.Date(2016, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	opts = append([]provider.ProviderOption{
		provider.OptProviderClock(func() time.Time { return e.now }),
		provider.OptProviderUIDGenerator(func() string {
			e.uids++
			return fmt.Sprintf("gen%d", e.uids)
		}),
	}, opts...)
	e.well = provider.New(kinds.NewWell(), e.adapter, opts...)
	e.wellbore = provider.New(kinds.NewWellbore(), e.adapter, opts...)
	e.trajectory = provider.New(kinds.NewTrajectory(), e.adapter, opts...)
	e.log = provider.New(kinds.NewLog(), e.adapter, opts...)
	return e
}

// withParents adds the well and wellbore every wellbore child needs.
func (e *env) withParents(t *testing.T) *env {
	t.Helper()
	mustAdd(t, e.well, wellXML)
	mustAdd(t, e.wellbore, wellboreXML)
	return e
}

func parser(t *testing.T, p *provider.Provider, opts witsml.OptionsIn, xml ...string) *query.Parser {
	t.Helper()
	els := make([]*document.Element, len(xml))
	for i, s := range xml {
		el, err := document.ParseString(s)
		require.NoError(t, err)
		els[i] = el
	}
	return query.NewParser(p.Kind().Type(), p.Kind().Family().Canonical(), opts, els...)
}

func mustAdd(t *testing.T, p *provider.Provider, xml string) witsml.ObjectID {
	t.Helper()
	id, err := p.Add(context.Background(), parser(t, p, nil, xml))
	require.NoError(t, err)
	return id
}

func get(t *testing.T, p *provider.Provider, re witsml.ReturnElements, xml ...string) []*document.Element {
	t.Helper()
	out, err := p.Get(context.Background(), parser(t, p, witsml.OptionsIn{witsml.OptionReturnElements: string(re)}, xml...))
	require.NoError(t, err)
	return out
}

func update(t *testing.T, p *provider.Provider, xml string) error {
	t.Helper()
	return p.Update(context.Background(), parser(t, p, nil, xml))
}

func del(t *testing.T, p *provider.Provider, opts witsml.OptionsIn, xml string) error {
	t.Helper()
	return p.Delete(context.Background(), parser(t, p, opts, xml))
}

func codeOf(err error) witsml.ErrorCode { return witsml.ErrorCodeOf(err) }

// stationMDs returns the md of each station of el in document order.
func stationMDs(el *document.Element) []string {
	var out []string
	for _, s := range el.ChildrenNamed("trajectoryStation") {
		out = append(out, s.ChildText("md"))
	}
	return out
}

func stationUIDs(el *document.Element) []string {
	var out []string
	for _, s := range el.ChildrenNamed("trajectoryStation") {
		out = append(out, s.Attr("uid"))
	}
	return out
}

func trajectoryXML(stations ...string) string {
	s := `<trajectory uid="t1" uidWell="w1" uidWellbore="b1"><nameWell>Well 01</nameWell><nameWellbore>Wellbore 01</nameWellbore><name>Trajectory 01</name>`
	for _, st := range stations {
		s += st
	}
	return s + `</trajectory>`
}

func station(uid, md string) string {
	if uid == "" {
		return fmt.Sprintf(`<trajectoryStation><md uom="m">%s</md></trajectoryStation>`, md)
	}
	return fmt.Sprintf(`<trajectoryStation uid="%s"><md uom="m">%s</md></trajectoryStation>`, uid, md)
}

const trajectoryTemplate = `<trajectory uid="t1" uidWell="w1" uidWellbore="b1"/>`

func TestProviderAdd(t *testing.T) {
	t.Run("AssignsUIDs", func(t *testing.T) {
		e := newEnv(t)
		id := mustAdd(t, e.well, `<well><name>Well 01</name><timeZone>Z</timeZone></well>`)
		assert.Equal(t, "gen1", id.Uid)

		out := get(t, e.well, witsml.ReturnElementsAll, `<well uid="gen1"/>`)
		require.Len(t, out, 1)
		assert.Equal(t, "Well 01", out[0].ChildText("name"))
		assert.Equal(t, "2016-01-02T03:04:05Z", out[0].FindText("commonData/dTimCreation"))
	})

	t.Run("DuplicateUID", func(t *testing.T) {
		e := newEnv(t)
		mustAdd(t, e.well, wellXML)
		_, err := e.well.Add(context.Background(), parser(t, e.well, nil, wellXML))
		assert.Equal(t, witsml.ErrorCodeDataObjectUidAlreadyExists, codeOf(err))
	})

	t.Run("MissingRequired", func(t *testing.T) {
		e := newEnv(t)
		_, err := e.well.Add(context.Background(), parser(t, e.well, nil, `<well uid="w1"><name>Well 01</name></well>`))
		assert.Equal(t, witsml.ErrorCodeMissingRequiredData, codeOf(err))
	})

	t.Run("MissingParentUID", func(t *testing.T) {
		e := newEnv(t)
		mustAdd(t, e.well, wellXML)
		_, err := e.wellbore.Add(context.Background(), parser(t, e.wellbore, nil, `<wellbore uid="b1"><nameWell>W</nameWell><name>B</name></wellbore>`))
		assert.Equal(t, witsml.ErrorCodeMissingParentUid, codeOf(err))
	})

	t.Run("MissingParent", func(t *testing.T) {
		e := newEnv(t)
		_, err := e.wellbore.Add(context.Background(), parser(t, e.wellbore, nil, wellboreXML))
		assert.Equal(t, witsml.ErrorCodeMissingParentDataObject, codeOf(err))
	})

	t.Run("MultipleObjects", func(t *testing.T) {
		e := newEnv(t)
		_, err := e.well.Add(context.Background(), parser(t, e.well, nil, wellXML, wellXML))
		assert.Equal(t, witsml.ErrorCodeInputTemplateMultipleDataObjects, codeOf(err))
	})

	t.Run("DuplicateStationUID", func(t *testing.T) {
		e := newEnv(t).withParents(t)
		_, err := e.trajectory.Add(context.Background(), parser(t, e.trajectory, nil,
			trajectoryXML(station("s1", "1"), station("s1", "2"))))
		assert.Equal(t, witsml.ErrorCodeChildUidNotUnique, codeOf(err))
	})

	t.Run("OrdersStations", func(t *testing.T) {
		e := newEnv(t).withParents(t)
		mustAdd(t, e.trajectory, trajectoryXML(station("s2", "8"), station("", "3"), station("s1", "5")))

		obj, err := e.adapter.Get(context.Background(), witsml.Key{
			Family: witsml.Family1x,
			Type:   witsml.ObjectTypeTrajectory,
			ID:     witsml.ObjectID{UidWell: "w1", UidWellbore: "b1", Uid: "t1"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"3", "5", "8"}, stationMDs(obj.Body))
		assert.Equal(t, []string{"gen1", "s1", "s2"}, stationUIDs(obj.Body))
		assert.Equal(t, "3", obj.Body.ChildText("mdMn"))
		assert.Equal(t, "m", obj.Body.Child("mdMn").Attr("uom"))
		assert.Equal(t, "8", obj.Body.ChildText("mdMx"))
		assert.Equal(t, "false", obj.Body.ChildText("objectGrowing"))
	})

	t.Run("MaxDataNodes", func(t *testing.T) {
		cfg := provider.NewConfig()
		cfg.MaxDataNodes.Add = 1
		e := newEnv(t, provider.OptProviderConfig(cfg)).withParents(t)
		_, err := e.trajectory.Add(context.Background(), parser(t, e.trajectory, nil,
			trajectoryXML(station("s1", "1"), station("s2", "2"))))
		assert.Equal(t, witsml.ErrorCodeExceededMaxDataNodes, codeOf(err))
	})
}

func TestProviderGet(t *testing.T) {
	e := newEnv(t).withParents(t)
	mustAdd(t, e.trajectory, trajectoryXML(station("s2", "8"), station("s1", "5"), station("s3", "12")))

	t.Run("HeaderOnly", func(t *testing.T) {
		out := get(t, e.trajectory, witsml.ReturnElementsHeaderOnly, trajectoryTemplate)
		require.Len(t, out, 1)
		assert.Empty(t, out[0].ChildrenNamed("trajectoryStation"))
		assert.Equal(t, "Trajectory 01", out[0].ChildText("name"))
		assert.Equal(t, "5", out[0].ChildText("mdMn"))
	})

	t.Run("DataOnly", func(t *testing.T) {
		out := get(t, e.trajectory, witsml.ReturnElementsDataOnly, trajectoryTemplate)
		require.Len(t, out, 1)
		assert.Equal(t, []string{"5", "8", "12"}, stationMDs(out[0]))
		assert.Empty(t, out[0].ChildText("mdMn"))
		assert.Equal(t, "t1", out[0].Attr("uid"))
	})

	t.Run("IDOnly", func(t *testing.T) {
		out := get(t, e.trajectory, witsml.ReturnElementsIDOnly, `<trajectory/>`)
		require.Len(t, out, 1)
		assert.Equal(t, "Trajectory 01", out[0].ChildText("name"))
		assert.Nil(t, out[0].Child("mdMn"))
		assert.Empty(t, out[0].ChildrenNamed("trajectoryStation"))
	})

	t.Run("StationRange", func(t *testing.T) {
		out := get(t, e.trajectory, witsml.ReturnElementsAll,
			`<trajectory uid="t1" uidWell="w1" uidWellbore="b1"><mdMn uom="m">6</mdMn><mdMx uom="m">12</mdMx></trajectory>`)
		require.Len(t, out, 1)
		assert.Equal(t, []string{"8", "12"}, stationMDs(out[0]))
	})

	t.Run("Requested", func(t *testing.T) {
		out := get(t, e.trajectory, witsml.ReturnElementsRequested,
			`<trajectory uid="t1" uidWell="w1" uidWellbore="b1"><name/><trajectoryStation uid="s2"/></trajectory>`)
		require.Len(t, out, 1)
		assert.Equal(t, "Trajectory 01", out[0].ChildText("name"))
		assert.Nil(t, out[0].Child("nameWell"))
		assert.Equal(t, []string{"s2"}, stationUIDs(out[0]))
	})

	t.Run("MaxReturnNodes", func(t *testing.T) {
		opts := witsml.OptionsIn{
			witsml.OptionReturnElements: string(witsml.ReturnElementsAll),
			witsml.OptionMaxReturnNodes: "2",
		}
		out, err := e.trajectory.Get(context.Background(), parser(t, e.trajectory, opts, trajectoryTemplate))
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, []string{"5", "8"}, stationMDs(out[0]))
	})

	t.Run("HeaderMatch", func(t *testing.T) {
		assert.Len(t, get(t, e.trajectory, witsml.ReturnElementsAll, `<trajectory><name>Trajectory 01</name></trajectory>`), 1)
		assert.Empty(t, get(t, e.trajectory, witsml.ReturnElementsAll, `<trajectory><name>Other</name></trajectory>`))
	})

	t.Run("MultipleTemplates", func(t *testing.T) {
		out := get(t, e.well, witsml.ReturnElementsAll, `<well uid="w1"/>`, `<well uid="missing"/>`, `<well/>`)
		assert.Len(t, out, 2)
	})

	t.Run("InvalidReturnElements", func(t *testing.T) {
		_, err := e.well.Get(context.Background(), parser(t, e.well,
			witsml.OptionsIn{witsml.OptionReturnElements: string(witsml.ReturnElementsStationLocationOnly)}, `<well/>`))
		assert.Equal(t, witsml.ErrorCodeInvalidReturnElementsForDataObjectType, codeOf(err))
	})
}

func TestProviderUpdate(t *testing.T) {
	t.Run("MergesStations", func(t *testing.T) {
		e := newEnv(t).withParents(t)
		mustAdd(t, e.trajectory, trajectoryXML(station("s1", "5"), station("s2", "8")))

		require.NoError(t, update(t, e.trajectory, trajectoryXML(station("s1", "10"))))

		out := get(t, e.trajectory, witsml.ReturnElementsAll, trajectoryTemplate)
		require.Len(t, out, 1)
		assert.Equal(t, []string{"s2", "s1"}, stationUIDs(out[0]))
		assert.Equal(t, "8", out[0].ChildText("mdMn"))
		assert.Equal(t, "10", out[0].ChildText("mdMx"))
	})

	t.Run("ReversedStations", func(t *testing.T) {
		e := newEnv(t).withParents(t)
		mustAdd(t, e.trajectory, trajectoryXML(
			station("s1", "1"), station("s2", "2"), station("s3", "3"), station("s4", "4"), station("s5", "5")))

		require.NoError(t, update(t, e.trajectory, trajectoryXML(
			station("s4", "7"), station("s3", "8"), station("s2", "9"), station("s1", "10"))))

		out := get(t, e.trajectory, witsml.ReturnElementsDataOnly, trajectoryTemplate)
		require.Len(t, out, 1)
		assert.Equal(t, []string{"s5", "s4", "s3", "s2", "s1"}, stationUIDs(out[0]))
		assert.Equal(t, []string{"5", "7", "8", "9", "10"}, stationMDs(out[0]))

		hdr := get(t, e.trajectory, witsml.ReturnElementsHeaderOnly, trajectoryTemplate)
		assert.Equal(t, "5", hdr[0].ChildText("mdMn"))
		assert.Equal(t, "10", hdr[0].ChildText("mdMx"))
	})

	t.Run("AppendSetsGrowing", func(t *testing.T) {
		e := newEnv(t).withParents(t)
		mustAdd(t, e.trajectory, trajectoryXML(station("s1", "5")))
		require.NoError(t, update(t, e.trajectory, trajectoryXML(station("s2", "6"))))

		hdr := get(t, e.trajectory, witsml.ReturnElementsHeaderOnly, trajectoryTemplate)
		assert.Equal(t, "true", hdr[0].ChildText("objectGrowing"))

		err := update(t, e.trajectory, trajectoryXML(`<objectGrowing>false</objectGrowing>`))
		assert.Equal(t, witsml.ErrorCodeUpdateObjectGrowingNotAllowed, codeOf(err))
	})

	t.Run("HeaderValues", func(t *testing.T) {
		e := newEnv(t)
		mustAdd(t, e.well, wellXML)
		e.now = e.now.Add(time.Hour)
		require.NoError(t, update(t, e.well, `<well uid="w1"><field>North</field><timeZone>Z</timeZone></well>`))

		out := get(t, e.well, witsml.ReturnElementsAll, `<well uid="w1"/>`)
		require.Len(t, out, 1)
		assert.Equal(t, "North", out[0].ChildText("field"))
		assert.Equal(t, "Z", out[0].ChildText("timeZone"))
		assert.Equal(t, "Well 01", out[0].ChildText("name"))
		assert.Equal(t, "2016-01-02T03:04:05Z", out[0].FindText("commonData/dTimCreation"))
		assert.Equal(t, "2016-01-02T04:04:05Z", out[0].FindText("commonData/dTimLastChange"))
	})

	t.Run("MissingStationUID", func(t *testing.T) {
		e := newEnv(t).withParents(t)
		mustAdd(t, e.trajectory, trajectoryXML(station("s1", "5")))
		err := update(t, e.trajectory, trajectoryXML(station("", "6")))
		assert.Equal(t, witsml.ErrorCodeMissingElementUidForUpdate, codeOf(err))
	})

	t.Run("DuplicateStationUID", func(t *testing.T) {
		e := newEnv(t).withParents(t)
		mustAdd(t, e.trajectory, trajectoryXML(station("s1", "5")))
		err := update(t, e.trajectory, trajectoryXML(station("s2", "6"), station("s2", "7")))
		assert.Equal(t, witsml.ErrorCodeChildUidNotUnique, codeOf(err))

		out := get(t, e.trajectory, witsml.ReturnElementsDataOnly, trajectoryTemplate)
		assert.Equal(t, []string{"s1"}, stationUIDs(out[0]))
	})

	t.Run("Missing", func(t *testing.T) {
		e := newEnv(t)
		err := update(t, e.well, wellXML)
		assert.Equal(t, witsml.ErrorCodeDataObjectNotExist, codeOf(err))
	})

	t.Run("MissingUID", func(t *testing.T) {
		e := newEnv(t)
		err := update(t, e.well, `<well><name>x</name></well>`)
		assert.Equal(t, witsml.ErrorCodeMissingDataObjectUid, codeOf(err))
	})
}

func TestProviderDelete(t *testing.T) {
	t.Run("Whole", func(t *testing.T) {
		e := newEnv(t)
		mustAdd(t, e.well, wellXML)
		require.NoError(t, del(t, e.well, nil, `<well uid="w1"/>`))
		assert.Empty(t, get(t, e.well, witsml.ReturnElementsAll, `<well/>`))

		err := del(t, e.well, nil, `<well uid="w1"/>`)
		assert.Equal(t, witsml.ErrorCodeDataObjectNotExist, codeOf(err))
	})

	t.Run("Stations", func(t *testing.T) {
		e := newEnv(t).withParents(t)
		mustAdd(t, e.trajectory, trajectoryXML(station("s1", "5"), station("s2", "8"), station("s3", "9")))
		require.NoError(t, del(t, e.trajectory, nil,
			`<trajectory uid="t1" uidWell="w1" uidWellbore="b1"><trajectoryStation uid="s3"/><trajectoryStation uid="s1"/></trajectory>`))

		out := get(t, e.trajectory, witsml.ReturnElementsAll, trajectoryTemplate)
		require.Len(t, out, 1)
		assert.Equal(t, []string{"s2"}, stationUIDs(out[0]))
		assert.Equal(t, "8", out[0].ChildText("mdMn"))
		assert.Equal(t, "8", out[0].ChildText("mdMx"))
	})

	t.Run("StationWithoutUID", func(t *testing.T) {
		e := newEnv(t).withParents(t)
		mustAdd(t, e.trajectory, trajectoryXML(station("s1", "5")))
		err := del(t, e.trajectory, nil, trajectoryXML(`<trajectoryStation/>`))
		assert.Equal(t, witsml.ErrorCodeMissingElementUidForDelete, codeOf(err))
	})

	t.Run("HeaderElement", func(t *testing.T) {
		e := newEnv(t)
		mustAdd(t, e.well, `<well uid="w1"><name>Well 01</name><timeZone>Z</timeZone><field>North</field></well>`)
		require.NoError(t, del(t, e.well, nil, `<well uid="w1"><field/></well>`))
		out := get(t, e.well, witsml.ReturnElementsAll, `<well uid="w1"/>`)
		assert.Nil(t, out[0].Child("field"))

		err := del(t, e.well, nil, `<well uid="w1"><name/></well>`)
		assert.Equal(t, witsml.ErrorCodeMissingRequiredData, codeOf(err))
		out = get(t, e.well, witsml.ReturnElementsAll, `<well uid="w1"/>`)
		assert.Equal(t, "Well 01", out[0].ChildText("name"))
	})

	t.Run("MissingUID", func(t *testing.T) {
		e := newEnv(t)
		err := del(t, e.well, nil, `<well/>`)
		assert.Equal(t, witsml.ErrorCodeMissingDataObjectUid, codeOf(err))
	})
}

// resolver reports wellbore b1 as the only child of well w1.
type resolver struct {
	adapter witsml.DataAdapter
}

func (r resolver) Exists(ctx context.Context, key witsml.Key) (bool, error) {
	_, err := r.adapter.Get(ctx, key)
	return err == nil, nil
}

func (r resolver) Children(ctx context.Context, key witsml.Key) ([]witsml.Key, error) {
	if key.Type != witsml.ObjectTypeWell {
		return nil, nil
	}
	child := witsml.Key{Family: witsml.Family1x, Type: witsml.ObjectTypeWellbore, ID: witsml.ObjectID{UidWell: key.ID.Uid, Uid: "b1"}}
	if ok, _ := r.Exists(ctx, child); !ok {
		return nil, nil
	}
	return []witsml.Key{child}, nil
}

func TestProviderCascade(t *testing.T) {
	adapter := inmem.NewAdapter(nil)
	opt := provider.OptProviderResolver(resolver{adapter: adapter})
	well := provider.New(kinds.NewWell(), adapter, opt)
	wellbore := provider.New(kinds.NewWellbore(), adapter, opt)
	mustAdd(t, well, wellXML)
	mustAdd(t, wellbore, wellboreXML)

	err := del(t, well, nil, `<well uid="w1"/>`)
	assert.Equal(t, witsml.ErrorCodeNotAllowedToDeleteParentWithChildren, codeOf(err))

	require.NoError(t, del(t, well, witsml.OptionsIn{witsml.OptionCascadedDelete: "true"}, `<well uid="w1"/>`))
	assert.Empty(t, get(t, well, witsml.ReturnElementsAll, `<well/>`))
	assert.Empty(t, get(t, wellbore, witsml.ReturnElementsAll, `<wellbore/>`))
}

const logHeader = `<log uid="l1" uidWell="w1" uidWellbore="b1"><nameWell>Well 01</nameWell><nameWellbore>Wellbore 01</nameWellbore><name>Log 01</name>` +
	`<indexType>measured depth</indexType><indexCurve>MD</indexCurve>` +
	`<logCurveInfo uid="MD"><mnemonic>MD</mnemonic><unit>m</unit></logCurveInfo>` +
	`<logCurveInfo uid="GR"><mnemonic>GR</mnemonic><unit>gAPI</unit></logCurveInfo>` +
	`<logCurveInfo uid="ROP"><mnemonic>ROP</mnemonic><unit>m/h</unit></logCurveInfo>`

const logTemplate = `<log uid="l1" uidWell="w1" uidWellbore="b1"/>`

func logXML(rows ...string) string {
	s := logHeader
	if len(rows) > 0 {
		s += `<logData><mnemonicList>MD,GR,ROP</mnemonicList><unitList>m,gAPI,m/h</unitList>`
		for _, r := range rows {
			s += `<data>` + r + `</data>`
		}
		s += `</logData>`
	}
	return s + `</log>`
}

func logRows(el *document.Element) []string {
	var out []string
	if ld := el.Child("logData"); ld != nil {
		for _, d := range ld.ChildrenNamed("data") {
			out = append(out, d.Text)
		}
	}
	return out
}

func TestProviderLog(t *testing.T) {
	t.Run("AddGet", func(t *testing.T) {
		e := newEnv(t).withParents(t)
		mustAdd(t, e.log, logXML("2,20,2.5", "1,10,1.5", "3,30,3.5"))

		out := get(t, e.log, witsml.ReturnElementsAll, logTemplate)
		require.Len(t, out, 1)
		assert.Equal(t, []string{"1,10,1.5", "2,20,2.5", "3,30,3.5"}, logRows(out[0]))
		assert.Equal(t, "MD,GR,ROP", out[0].FindText("logData/mnemonicList"))
		assert.Equal(t, "1", out[0].ChildText("startIndex"))
		assert.Equal(t, "m", out[0].Child("startIndex").Attr("uom"))
		assert.Equal(t, "3", out[0].ChildText("endIndex"))
		assert.Len(t, out[0].ChildrenNamed("logCurveInfo"), 3)
	})

	t.Run("Range", func(t *testing.T) {
		e := newEnv(t).withParents(t)
		mustAdd(t, e.log, logXML("1,10,1.5", "2,20,2.5", "3,30,3.5"))

		out := get(t, e.log, witsml.ReturnElementsDataOnly,
			`<log uid="l1" uidWell="w1" uidWellbore="b1"><startIndex uom="m">2</startIndex></log>`)
		require.Len(t, out, 1)
		assert.Equal(t, []string{"2,20,2.5", "3,30,3.5"}, logRows(out[0]))
		assert.Empty(t, out[0].ChildrenNamed("logCurveInfo"))
	})

	t.Run("RequestedCurves", func(t *testing.T) {
		e := newEnv(t).withParents(t)
		mustAdd(t, e.log, logXML("1,10,1.5", "2,20,2.5"))

		out := get(t, e.log, witsml.ReturnElementsRequested,
			`<log uid="l1" uidWell="w1" uidWellbore="b1"><logCurveInfo uid="ROP"><mnemonic>ROP</mnemonic></logCurveInfo><logData><mnemonicList>ROP</mnemonicList></logData></log>`)
		require.Len(t, out, 1)
		assert.Equal(t, "MD,ROP", out[0].FindText("logData/mnemonicList"))
		assert.Equal(t, []string{"1,1.5", "2,2.5"}, logRows(out[0]))
	})

	t.Run("IndexNotFirst", func(t *testing.T) {
		e := newEnv(t).withParents(t)
		bad := logHeader + `<logData><mnemonicList>GR,MD</mnemonicList><data>10,1</data></logData></log>`
		_, err := e.log.Add(context.Background(), parser(t, e.log, nil, bad))
		assert.Equal(t, witsml.ErrorCodeIndexCurveNotFound, codeOf(err))
	})

	t.Run("AppendSetsGrowing", func(t *testing.T) {
		e := newEnv(t).withParents(t)
		mustAdd(t, e.log, logXML("1,10,1.5", "2,20,2.5"))

		require.NoError(t, update(t, e.log, logXML("3,30,3.5", "2,21,")))

		out := get(t, e.log, witsml.ReturnElementsAll, logTemplate)
		require.Len(t, out, 1)
		assert.Equal(t, []string{"1,10,1.5", "2,21,2.5", "3,30,3.5"}, logRows(out[0]))
		assert.Equal(t, "3", out[0].ChildText("endIndex"))
		assert.Equal(t, "true", out[0].ChildText("objectGrowing"))
	})

	t.Run("DeleteRange", func(t *testing.T) {
		e := newEnv(t).withParents(t)
		mustAdd(t, e.log, logXML("1,10,1.5", "2,20,2.5", "3,30,3.5"))

		require.NoError(t, del(t, e.log, nil,
			`<log uid="l1" uidWell="w1" uidWellbore="b1"><startIndex uom="m">1</startIndex><endIndex uom="m">2</endIndex></log>`))

		out := get(t, e.log, witsml.ReturnElementsAll, logTemplate)
		require.Len(t, out, 1)
		assert.Equal(t, []string{"3,30,3.5"}, logRows(out[0]))
		assert.Equal(t, "3", out[0].ChildText("startIndex"))
		assert.Equal(t, "3", out[0].ChildText("endIndex"))
	})

	t.Run("DeleteCurve", func(t *testing.T) {
		e := newEnv(t).withParents(t)
		mustAdd(t, e.log, logXML("1,10,1.5", "2,20,2.5"))

		require.NoError(t, del(t, e.log, nil,
			`<log uid="l1" uidWell="w1" uidWellbore="b1"><logCurveInfo uid="GR"/></log>`))

		out := get(t, e.log, witsml.ReturnElementsAll, logTemplate)
		require.Len(t, out, 1)
		assert.Len(t, out[0].ChildrenNamed("logCurveInfo"), 2)
		assert.Equal(t, "MD,ROP", out[0].FindText("logData/mnemonicList"))
		assert.Equal(t, []string{"1,1.5", "2,2.5"}, logRows(out[0]))
	})

	t.Run("MaxDataPoints", func(t *testing.T) {
		cfg := provider.NewConfig()
		cfg.MaxDataPoints.Add = 5
		e := newEnv(t, provider.OptProviderConfig(cfg)).withParents(t)
		_, err := e.log.Add(context.Background(), parser(t, e.log, nil, logXML("1,10,1.5", "2,20,2.5")))
		assert.Equal(t, witsml.ErrorCodeExceededMaxDataPoints, codeOf(err))
	})

	t.Run("ZeroChunkSize", func(t *testing.T) {
		cfg := provider.NewConfig()
		cfg.DepthChunkSize = 0
		cfg.TimeChunkSize = -1
		require.Error(t, cfg.Validate())

		e := newEnv(t, provider.OptProviderConfig(cfg)).withParents(t)
		mustAdd(t, e.log, logXML("1,10,1.5", "2,20,2.5", "0,0,0.5"))

		out := get(t, e.log, witsml.ReturnElementsAll, logTemplate)
		require.Len(t, out, 1)
		assert.Equal(t, []string{"0,0,0.5", "1,10,1.5", "2,20,2.5"}, logRows(out[0]))

		out = get(t, e.log, witsml.ReturnElementsDataOnly,
			`<log uid="l1" uidWell="w1" uidWellbore="b1"><startIndex uom="m">1</startIndex></log>`)
		require.Len(t, out, 1)
		assert.Equal(t, []string{"1,10,1.5", "2,20,2.5"}, logRows(out[0]))
	})
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, provider.NewConfig().Validate())

	cfg := provider.NewConfig()
	cfg.DepthChunkSize = 0
	assert.Error(t, cfg.Validate())

	cfg = provider.NewConfig()
	cfg.TimeChunkSize = -86400
	assert.Error(t, cfg.Validate())
}

func TestProviderGate(t *testing.T) {
	gate := authz.NewGate(true, authz.OptGateRules(authz.UserRule{"reader": authz.Read}))
	e := newEnv(t, provider.OptProviderGate(gate))
	ctx := witsml.WithOperation(context.Background(), witsml.Operation{User: "reader", Endpoint: witsml.EndpointSoap})

	_, err := e.well.Add(ctx, parser(t, e.well, nil, wellXML))
	assert.Equal(t, witsml.ErrorCodeInsufficientOperationRights, codeOf(err))

	_, err = e.well.Get(ctx, parser(t, e.well, nil, `<well/>`))
	assert.NoError(t, err)

	anon := witsml.WithOperation(context.Background(), witsml.Operation{User: "someone"})
	_, err = e.well.Get(anon, parser(t, e.well, nil, `<well/>`))
	assert.Equal(t, witsml.ErrorCodeInsufficientOperationRights, codeOf(err))
}
