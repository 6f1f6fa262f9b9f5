// Copyright 2025 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package decoder

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"m4o.io/o5m/model"
)

// relRefTypes maps member-type digits to the pair keys cached in the
// string table.
var relRefTypes = [4]string{"node", "way", "relation", "?"}

// readNode decodes a node dataset. A payload exhausted after the id, or
// after the metadata sub-record, is a delete marker and produces nothing.
func (s *Session) readNode() (model.Entity, error) {
	delta, err := s.cur.svarint()
	if err != nil {
		return nil, err
	}

	s.lastNodeID += delta

	if s.cur.remaining() == 0 {
		return nil, nil // id only: a delete action, ignored
	}

	if err := s.readVersionTsAuthor(); err != nil {
		return nil, err
	}

	if s.cur.remaining() == 0 {
		return nil, nil // id and version only: a delete action, ignored
	}

	lonDelta, err := s.cur.svarint()
	if err != nil {
		return nil, err
	}

	s.lastLon += int32(lonDelta)

	latDelta, err := s.cur.svarint()
	if err != nil {
		return nil, err
	}

	s.lastLat += int32(latDelta)

	lon := model.ToDegrees(s.lastLon).Rounded()
	lat := model.ToDegrees(s.lastLat).Rounded()

	if !model.ValidLat(lat) || !model.ValidLon(lon) {
		return nil, fmt.Errorf("node %d at (%s, %s): %w", s.lastNodeID, lat, lon, ErrInvalidCoordinates)
	}

	if s.version == 0 {
		s.uploadDiscouraged = true
	}

	info, err := s.buildInfo()
	if err != nil {
		return nil, err
	}

	node := model.Node{ID: model.ID(s.lastNodeID), Info: info, Lat: lat, Lon: lon}

	if s.cur.remaining() > 0 {
		if node.Tags, err = s.readTags(); err != nil {
			return nil, err
		}
	}

	return node, nil
}

// readWay decodes a way dataset.
func (s *Session) readWay() (model.Entity, error) {
	delta, err := s.cur.svarint()
	if err != nil {
		return nil, err
	}

	s.lastWayID += delta

	if s.cur.remaining() == 0 {
		return nil, nil // id only: a delete action, ignored
	}

	if err := s.readVersionTsAuthor(); err != nil {
		return nil, err
	}

	if s.cur.remaining() == 0 {
		return nil, nil // id and version only: a delete action, ignored
	}

	if s.version == 0 {
		s.uploadDiscouraged = true
	}

	info, err := s.buildInfo()
	if err != nil {
		return nil, err
	}

	stop, err := s.refBoundary()
	if err != nil {
		return nil, err
	}

	var nodeIDs []model.ID

	for s.cur.remaining() > stop {
		refDelta, err := s.cur.svarint()
		if err != nil {
			return nil, err
		}

		s.lastRef[model.NODE] += refDelta
		nodeIDs = append(nodeIDs, model.ID(s.lastRef[model.NODE]))
	}

	tags, err := s.readTags()
	if err != nil {
		return nil, err
	}

	return model.Way{ID: model.ID(s.lastWayID), Info: info, NodeIDs: nodeIDs, Tags: tags}, nil
}

// readRelation decodes a relation dataset.
func (s *Session) readRelation() (model.Entity, error) {
	delta, err := s.cur.svarint()
	if err != nil {
		return nil, err
	}

	s.lastRelID += delta

	if s.cur.remaining() == 0 {
		return nil, nil // id only: a delete action, ignored
	}

	if err := s.readVersionTsAuthor(); err != nil {
		return nil, err
	}

	if s.cur.remaining() == 0 {
		return nil, nil // id and version only: a delete action, ignored
	}

	if s.version == 0 {
		s.uploadDiscouraged = true
	}

	info, err := s.buildInfo()
	if err != nil {
		return nil, err
	}

	stop, err := s.refBoundary()
	if err != nil {
		return nil, err
	}

	var members []model.Member

	for s.cur.remaining() > stop {
		refDelta, err := s.cur.svarint()
		if err != nil {
			return nil, err
		}

		refType, role, err := s.readRelRef()
		if err != nil {
			return nil, err
		}

		s.lastRef[refType] += refDelta

		members = append(members, model.Member{
			ID:   model.ID(s.lastRef[refType]),
			Type: refType,
			Role: role,
		})
	}

	tags, err := s.readTags()
	if err != nil {
		return nil, err
	}

	return model.Relation{ID: model.ID(s.lastRelID), Info: info, Members: members, Tags: tags}, nil
}

// refBoundary reads the member-reference byte count and returns the
// remaining-bytes mark at which the member section ends.
func (s *Session) refBoundary() (int, error) {
	refSize, err := s.cur.uvarint()
	if err != nil {
		return 0, err
	}

	if refSize > uint64(s.cur.remaining()) {
		return 0, fmt.Errorf("reference section of %d bytes exceeds payload: %w", refSize, ErrMalformedStream)
	}

	return s.cur.remaining() - int(refSize), nil
}

// readVersionTsAuthor decodes the version/timestamp/changeset/author
// sub-record, maintaining the running timestamp and changeset deltas and
// the string table.
func (s *Session) readVersionTsAuthor() error {
	s.hasUser = false

	version, err := s.cur.uvarint()
	if err != nil {
		return err
	}

	s.version = int32(version)
	if s.version == 0 {
		return nil
	}

	tsDelta, err := s.cur.svarint()
	if err != nil {
		return err
	}

	s.lastTimestamp += tsDelta
	if s.lastTimestamp == 0 {
		return nil
	}

	csDelta, err := s.cur.svarint()
	if err != nil {
		return err
	}

	// the reference implementation accumulates the changeset delta
	// through a 32-bit truncation
	s.lastChangeset += int64(int32(csDelta))

	return s.readAuthor()
}

// readAuthor decodes the (uid, username) pair, either fresh from the
// payload or via a string-table reference, and records the active user.
func (s *Session) readAuthor() error {
	ref, err := s.cur.uvarint()
	if err != nil {
		return err
	}

	var pair stringPair

	if ref == 0 {
		start := s.cur.remaining()

		uid, err := s.cur.uvarint()
		if err != nil {
			return err
		}

		if uid == 0 {
			pair.key = "" // no user id
		} else {
			pair.key = strconv.FormatUint(uid, 10)

			// skip the terminating zero of the uid field
			if _, err := s.cur.readByte(); err != nil {
				return err
			}
		}

		if pair.value, err = s.cur.cstring(); err != nil {
			return err
		}

		if start-s.cur.remaining() <= maxStringPairSize {
			s.tbl.store(pair)
		}
	} else {
		pair = s.tbl.resolve(ref)
	}

	if pair.key != "" {
		uid, err := strconv.ParseInt(pair.key, 10, 64)
		if err != nil {
			return fmt.Errorf("author reference resolved to non-numeric uid %q: %w", pair.key, ErrMalformedStream)
		}

		s.uid = model.UID(uid)
		s.user = pair.value
		s.hasUser = true
	}

	return nil
}

// buildInfo assembles entity metadata from the session's running state,
// validating the changeset and timestamp ranges.
func (s *Session) buildInfo() (*model.Info, error) {
	version := s.version
	if version == 0 {
		version = 1
	}

	if s.lastChangeset > math.MaxInt32 {
		return nil, fmt.Errorf("changeset %d out of range: %w", s.lastChangeset, ErrInvalidChangesetID)
	}

	info := &model.Info{Version: version, Changeset: s.lastChangeset}

	if s.lastTimestamp != 0 {
		if s.lastTimestamp < 0 {
			return nil, fmt.Errorf("timestamp %d before epoch: %w", s.lastTimestamp, ErrInvalidTimestamp)
		}

		info.Timestamp = time.Unix(s.lastTimestamp, 0).UTC()

		if s.hasUser {
			info.UID = s.uid
			info.User = s.user
		}
	}

	return info, nil
}

// readTags consumes the rest of the payload as string pairs, last write
// winning on duplicate keys.
func (s *Session) readTags() (map[string]string, error) {
	tags := make(map[string]string)

	for s.cur.remaining() > 0 {
		pair, err := s.readStringPair()
		if err != nil {
			return nil, err
		}

		tags[pair.key] = pair.value
	}

	return tags, nil
}

// readStringPair reads one (key, value) pair, fresh or referenced.
// Fresh pairs within the size cap are cached for later references.
func (s *Session) readStringPair() (stringPair, error) {
	ref, err := s.cur.uvarint()
	if err != nil {
		return stringPair{}, err
	}

	if ref != 0 {
		return s.tbl.resolve(ref), nil
	}

	start := s.cur.remaining()

	var pair stringPair

	if pair.key, err = s.cur.cstring(); err != nil {
		return stringPair{}, err
	}

	if pair.value, err = s.cur.cstring(); err != nil {
		return stringPair{}, err
	}

	if start-s.cur.remaining() <= maxStringPairSize {
		s.tbl.store(pair)
	}

	return pair, nil
}

// readRelRef decodes the combined member-type and role field of a
// relation member. A fresh field is a raw type digit '0'..'2' followed
// by a null-terminated role; anything else maps to the unknown type,
// which owns a dedicated delta slot so it cannot index out of range.
func (s *Session) readRelRef() (model.EntityType, string, error) {
	start := s.cur.remaining()

	ref, err := s.cur.uvarint()
	if err != nil {
		return model.UNKNOWN, "", err
	}

	if ref != 0 {
		pair := s.tbl.resolve(ref)

		refType := model.UNKNOWN
		if pair.key != "" {
			switch pair.key[0] {
			case 'n':
				refType = model.NODE
			case 'w':
				refType = model.WAY
			case 'r':
				refType = model.RELATION
			}
		}

		return refType, pair.value, nil
	}

	digit, err := s.cur.readByte()
	if err != nil {
		return model.UNKNOWN, "", err
	}

	refType := model.EntityType(int(digit) - '0')
	if refType < model.NODE || refType > model.RELATION {
		refType = model.UNKNOWN
	}

	role, err := s.cur.cstring()
	if err != nil {
		return model.UNKNOWN, "", err
	}

	if start-s.cur.remaining() <= maxStringPairSize {
		s.tbl.store(stringPair{key: relRefTypes[refType], value: role})
	}

	return refType, role, nil
}
