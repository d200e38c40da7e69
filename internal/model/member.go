package model

// Member identifies one of the two household members. Display names live in
// configuration; rows only ever store the key.
type Member string

const (
	MemberA Member = "a"
	MemberB Member = "b"
)

// Valid reports whether m is one of the two known members.
func (m Member) Valid() bool {
	return m == MemberA || m == MemberB
}

// Other returns the other household member.
func (m Member) Other() Member {
	if m == MemberA {
		return MemberB
	}
	return MemberA
}
