package kinds

import (
	"strings"

	"github.com/Sjoshi-TYCS/witsml"
	"github.com/Sjoshi-TYCS/witsml/channeldata"
	"github.com/Sjoshi-TYCS/witsml/document"
)

// logSeries stores 1.x log data. Each logData block names its columns in
// mnemonicList, the index column first.
type logSeries struct{}

func (logSeries) DataElement() string { return "logData" }

func (logSeries) RangeElements(l channeldata.Layout) (string, string) {
	if l.IsTime {
		return "startDateTimeIndex", "endDateTimeIndex"
	}
	return "startIndex", "endIndex"
}

func (logSeries) Mnemonic(curve *document.Element) string {
	return curve.ChildText("mnemonic")
}

func (logSeries) Layout(header *document.Element) channeldata.Layout {
	layout := channeldata.Layout{
		IsTime:     strings.EqualFold(header.ChildText("indexType"), "date time"),
		Increasing: !isDecreasing(header.ChildText("direction")),
	}
	index := header.ChildText("indexCurve")
	curves := header.ChildrenNamed("logCurveInfo")
	for _, c := range curves {
		if c.ChildText("mnemonic") == index {
			layout.Mnemonics = append(layout.Mnemonics, index)
			layout.Units = append(layout.Units, c.ChildText("unit"))
		}
	}
	if len(layout.Mnemonics) == 0 {
		return layout
	}
	for _, c := range curves {
		if m := c.ChildText("mnemonic"); m != index {
			layout.Mnemonics = append(layout.Mnemonics, m)
			layout.Units = append(layout.Units, c.ChildText("unit"))
		}
	}
	return layout
}

func (logSeries) Extract(el *document.Element, layout channeldata.Layout) ([]witsml.Row, error) {
	var rows []witsml.Row
	for _, ld := range el.RemoveChildren("logData") {
		mnemonics := layout.Mnemonics
		if list := ld.ChildText("mnemonicList"); list != "" {
			mnemonics = splitList(list)
		}
		if err := checkColumns(mnemonics, layout); err != nil {
			return nil, err
		}
		var lines []string
		for _, d := range ld.ChildrenNamed("data") {
			lines = append(lines, d.Text)
		}
		rs, err := channeldata.ParseRows(lines, mnemonics, layout)
		if err != nil {
			return nil, err
		}
		rows = append(rows, rs...)
	}
	return channeldata.Merge(nil, rows, layout.Increasing), nil
}

func (logSeries) Attach(el *document.Element, layout channeldata.Layout, rows []witsml.Row) {
	el.RemoveChildren("logData")
	lines := channeldata.FormatRows(rows, layout)
	if len(lines) == 0 {
		return
	}
	ld := el.AddChild(document.New("logData"))
	ld.AddChild(document.NewText("mnemonicList", strings.Join(layout.Mnemonics, ",")))
	ld.AddChild(document.NewText("unitList", strings.Join(layout.Units, ",")))
	for _, line := range lines {
		ld.AddChild(document.NewText("data", line))
	}
}

func (s logSeries) Extent(header *document.Element, layout channeldata.Layout) (string, string) {
	start, end := s.RangeElements(layout)
	return header.ChildText(start), header.ChildText(end)
}

func (s logSeries) Summarize(header *document.Element, layout channeldata.Layout, first, last string) {
	start, end := s.RangeElements(layout)
	summarize(header, start, first, layout, !layout.IsTime)
	summarize(header, end, last, layout, !layout.IsTime)
}

// summarize sets or removes one extent element, with the index unit when
// withUnit is set.
func summarize(header *document.Element, name, value string, layout channeldata.Layout, withUnit bool) {
	if value == "" {
		header.RemoveChildren(name)
		return
	}
	el := header.SetChild(name, value)
	if u := layout.Unit(layout.IndexMnemonic()); withUnit && u != "" {
		el.SetAttr("uom", u)
	}
}

// checkColumns validates the columns of a data block against the layout.
func checkColumns(mnemonics []string, layout channeldata.Layout) error {
	if len(mnemonics) == 0 || mnemonics[0] != layout.IndexMnemonic() {
		return witsml.NewError(witsml.ErrIndexCurveNotFound, "data does not start with index curve %s", layout.IndexMnemonic())
	}
	return channeldata.Layout{Mnemonics: mnemonics}.Check()
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// channelSetSeries stores 2.0 channel set data, a JSON array of rows
// under Data/Data whose columns are the index followed by the channels.
type channelSetSeries struct{}

func (channelSetSeries) DataElement() string { return "Data" }

func (channelSetSeries) RangeElements(channeldata.Layout) (string, string) {
	return "StartIndex", "EndIndex"
}

func (channelSetSeries) Mnemonic(channel *document.Element) string {
	return channel.ChildText("Mnemonic")
}

func (channelSetSeries) Layout(header *document.Element) channeldata.Layout {
	indexType := strings.ToLower(header.FindText("Index/IndexType"))
	layout := channeldata.Layout{
		IsTime:     strings.Contains(indexType, "date") || indexType == "time",
		Increasing: !isDecreasing(header.FindText("Index/Direction")),
	}
	index := header.FindText("Index/Mnemonic")
	if index == "" {
		return layout
	}
	layout.Mnemonics = []string{index}
	layout.Units = []string{header.FindText("Index/Uom")}
	for _, c := range header.ChildrenNamed("Channel") {
		if m := c.ChildText("Mnemonic"); m != index {
			layout.Mnemonics = append(layout.Mnemonics, m)
			layout.Units = append(layout.Units, c.ChildText("Uom"))
		}
	}
	return layout
}

func (channelSetSeries) Extract(el *document.Element, layout channeldata.Layout) ([]witsml.Row, error) {
	var rows []witsml.Row
	for _, d := range el.RemoveChildren("Data") {
		data := d.ChildText("Data")
		if strings.TrimSpace(data) == "" {
			continue
		}
		rs, err := channeldata.ParseJSON(data, layout.Mnemonics, layout)
		if err != nil {
			return nil, err
		}
		rows = append(rows, rs...)
	}
	return channeldata.Merge(nil, rows, layout.Increasing), nil
}

func (channelSetSeries) Attach(el *document.Element, layout channeldata.Layout, rows []witsml.Row) {
	el.RemoveChildren("Data")
	if len(rows) == 0 {
		return
	}
	d := el.AddChild(document.New("Data"))
	d.AddChild(document.NewText("Data", channeldata.FormatJSON(rows, layout)))
}

func (s channelSetSeries) Extent(header *document.Element, layout channeldata.Layout) (string, string) {
	return header.ChildText("StartIndex"), header.ChildText("EndIndex")
}

func (s channelSetSeries) Summarize(header *document.Element, layout channeldata.Layout, first, last string) {
	summarize(header, "StartIndex", first, layout, !layout.IsTime)
	summarize(header, "EndIndex", last, layout, !layout.IsTime)
}
