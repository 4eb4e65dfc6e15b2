package gen3

import "encoding/binary"

// pcBuffer is the PC storage area, sections 5-13 joined end to end. Records
// may straddle a section boundary, so box access always goes through the
// joined copy.
type pcBuffer []byte

func gatherPC(slot *Slot) pcBuffer {
	buf := make([]byte, 0, PCBufferSize)
	for id := SectionPCFirst; id <= SectionPCLast; id++ {
		buf = append(buf, slot.Section(id).Payload()...)
	}
	return buf
}

// scatter copies the buffer back into the given sections (indexed by ID)
// and reports which IDs changed.
func (pc pcBuffer) scatter(sections map[uint16]*Section) []uint16 {
	var changed []uint16
	pos := 0
	for id := SectionPCFirst; id <= SectionPCLast; id++ {
		sec := sections[id]
		n := SectionDataSize(id)
		if string(sec.Data[:n]) != string(pc[pos:pos+n]) {
			copy(sec.Data[:n], pc[pos:pos+n])
			changed = append(changed, id)
		}
		pos += n
	}
	return changed
}

func recordOffset(box, slot int) int {
	return PCRecordsOffset + (box*BoxCapacity+slot)*BoxRecordSize
}

func (pc pcBuffer) currentBox() int {
	return int(binary.LittleEndian.Uint32(pc[0:PCCurrentBoxSize]))
}

func (pc pcBuffer) record(box, slot int) []byte {
	off := recordOffset(box, slot)
	return pc[off : off+BoxRecordSize]
}

func (pc pcBuffer) boxName(box int) []byte {
	off := PCBoxNamesOffset + box*BoxNameLength
	return pc[off : off+BoxNameLength]
}

func (pc pcBuffer) wallpaper(box int) uint8 {
	return pc[PCWallpaperOffset+box]
}
