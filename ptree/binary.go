package ptree

import (
	"encoding/binary"
	"fmt"
)

// MarshalBinary encodes t for persistence. The Def field is not reproduced
// on decode as the live node graph it points to belongs to a particular
// grammar construction; only its display label (via fmt.Stringer, if it
// implements one) is retained as DefLabel on the decoded tree's Name for an
// interior node.
func (t *Tree) MarshalBinary() ([]byte, error) {
	var data []byte

	data = append(data, encBinaryBool(t.Terminal)...)
	data = append(data, encBinaryString(t.Name)...)

	defLabel := ""
	if t.Def != nil {
		if s, ok := t.Def.(fmt.Stringer); ok {
			defLabel = s.String()
		}
	}
	data = append(data, encBinaryString(defLabel)...)

	data = append(data, encBinaryInt(t.Source.Code)...)
	data = append(data, encBinaryString(t.Source.Text)...)

	data = append(data, encBinaryInt(len(t.Children))...)
	for _, c := range t.Children {
		enc, err := c.MarshalBinary()
		if err != nil {
			return nil, err
		}
		data = append(data, encBinaryInt(len(enc))...)
		data = append(data, enc...)
	}

	return data, nil
}

// UnmarshalBinary decodes data produced by MarshalBinary. The resulting
// tree's Def holds a string label (the original DefLabel) rather than the
// opaque value the original tree carried.
func (t *Tree) UnmarshalBinary(data []byte) error {
	var err error
	var n int

	t.Terminal, n, err = decBinaryBool(data)
	if err != nil {
		return err
	}
	data = data[n:]

	t.Name, n, err = decBinaryString(data)
	if err != nil {
		return err
	}
	data = data[n:]

	var defLabel string
	defLabel, n, err = decBinaryString(data)
	if err != nil {
		return err
	}
	data = data[n:]
	if defLabel != "" {
		t.Def = defLabel
	} else {
		t.Def = nil
	}

	t.Source.Code, n, err = decBinaryInt(data)
	if err != nil {
		return err
	}
	data = data[n:]

	t.Source.Text, n, err = decBinaryString(data)
	if err != nil {
		return err
	}
	data = data[n:]

	var childCount int
	childCount, n, err = decBinaryInt(data)
	if err != nil {
		return err
	}
	data = data[n:]

	t.Children = make([]*Tree, childCount)
	for i := 0; i < childCount; i++ {
		var childLen int
		childLen, n, err = decBinaryInt(data)
		if err != nil {
			return err
		}
		data = data[n:]

		if len(data) < childLen {
			return fmt.Errorf("truncated child %d of tree node", i)
		}

		child := &Tree{}
		if err := child.UnmarshalBinary(data[:childLen]); err != nil {
			return err
		}
		t.Children[i] = child
		data = data[childLen:]
	}

	return nil
}

func encBinaryBool(b bool) []byte {
	if b {
		return []byte{1}
	}
	return []byte{0}
}

func decBinaryBool(data []byte) (bool, int, error) {
	if len(data) < 1 {
		return false, 0, fmt.Errorf("unexpected end of data")
	}
	return data[0] != 0, 1, nil
}

func encBinaryInt(i int) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(i))
	return buf
}

func decBinaryInt(data []byte) (int, int, error) {
	if len(data) < 8 {
		return 0, 0, fmt.Errorf("unexpected end of data")
	}
	return int(binary.BigEndian.Uint64(data[:8])), 8, nil
}

func encBinaryString(s string) []byte {
	strBytes := []byte(s)
	data := encBinaryInt(len(strBytes))
	data = append(data, strBytes...)
	return data
}

func decBinaryString(data []byte) (string, int, error) {
	strLen, n, err := decBinaryInt(data)
	if err != nil {
		return "", 0, err
	}
	data = data[n:]
	if len(data) < strLen {
		return "", 0, fmt.Errorf("unexpected end of data")
	}
	return string(data[:strLen]), n + strLen, nil
}
