package catalog

import "fmt"

var divisions = []string{"Iron", "Bronze", "Silver", "Gold", "Platinum", "Diamond", "Ascendant", "Immortal"}

// Default returns the built-in catalog used when no catalog file is configured.
func Default() *Catalog {
	return New(DefaultDocument())
}

func DefaultDocument() Document {
	doc := Document{
		Maps: []Map{
			{ID: "/Game/Maps/Ascent/Ascent", Name: "Ascent"},
			{ID: "/Game/Maps/Duality/Duality", Name: "Bind"},
			{ID: "/Game/Maps/Triad/Triad", Name: "Haven"},
			{ID: "/Game/Maps/Bonsai/Bonsai", Name: "Split"},
			{ID: "/Game/Maps/Port/Port", Name: "Icebox"},
			{ID: "/Game/Maps/Foxtrot/Foxtrot", Name: "Breeze"},
			{ID: "/Game/Maps/Canyon/Canyon", Name: "Fracture"},
			{ID: "/Game/Maps/Pitt/Pitt", Name: "Pearl"},
			{ID: "/Game/Maps/Jam/Jam", Name: "Lotus"},
			{ID: "/Game/Maps/Juliett/Juliett", Name: "Sunset"},
			{ID: "/Game/Maps/Infinity/Infinity", Name: "Abyss"},
			{ID: "/Game/Maps/Rook/Rook", Name: "Corrode"},
		},
		Agents: []Agent{
			{ID: "add6443a-41bd-e414-f6ad-e58d267f4e95", Name: "Jett", Role: "Duelist"},
			{ID: "a3bfb853-43b2-7238-a4f1-ad90e9e46bcc", Name: "Reyna", Role: "Duelist"},
			{ID: "eb93336a-449b-9c1b-0a54-a891f7921d69", Name: "Phoenix", Role: "Duelist"},
			{ID: "f94c3b30-42be-e959-889c-5aa313dba261", Name: "Raze", Role: "Duelist"},
			{ID: "7f94d92c-4234-0a36-9646-3a87eb8b5c89", Name: "Yoru", Role: "Duelist"},
			{ID: "bb2a4828-46eb-8cd1-e765-15848195d751", Name: "Neon", Role: "Duelist"},
			{ID: "0e38b510-41a8-5780-5e8f-568b2a4f2d6c", Name: "Iso", Role: "Duelist"},
			{ID: "320b2a48-4d9b-a075-30f1-1f93a9b638fa", Name: "Sova", Role: "Initiator"},
			{ID: "5f8d3a7f-467b-97f3-062c-13acf203c006", Name: "Breach", Role: "Initiator"},
			{ID: "6f2a04ca-43e0-be17-7f36-b3908627744d", Name: "Skye", Role: "Initiator"},
			{ID: "601dbbe7-43ce-be57-2a40-4abd24953621", Name: "KAY/O", Role: "Initiator"},
			{ID: "dade69b4-4f5a-8528-247b-219e5a1facd6", Name: "Fade", Role: "Initiator"},
			{ID: "e370fa57-4757-3604-3648-499e1f642d3f", Name: "Gekko", Role: "Initiator"},
			{ID: "9f0d8ba9-4140-b941-57d3-a7ad57c6b417", Name: "Brimstone", Role: "Controller"},
			{ID: "8e253930-4c05-31dd-1b6c-968525494517", Name: "Omen", Role: "Controller"},
			{ID: "707eab51-4836-f488-046a-cda6bf494859", Name: "Viper", Role: "Controller"},
			{ID: "41fb69c1-4189-7b37-f117-bcaf1e96f1bf", Name: "Astra", Role: "Controller"},
			{ID: "95b78ed7-4637-86d9-7e41-71ba8c293152", Name: "Harbor", Role: "Controller"},
			{ID: "1dbf2edd-4729-0984-3115-daa5eed44993", Name: "Clove", Role: "Controller"},
			{ID: "569fdd95-4d10-43ab-ca70-79becc718b46", Name: "Sage", Role: "Sentinel"},
			{ID: "117ed9e3-49f3-6512-3ccf-0cada7e3823b", Name: "Cypher", Role: "Sentinel"},
			{ID: "1e58de9c-4950-5125-93e9-a0aee9f98746", Name: "Killjoy", Role: "Sentinel"},
			{ID: "22697a3d-45bf-8dd7-4fec-84a9e28c69d7", Name: "Chamber", Role: "Sentinel"},
			{ID: "cc8b64c8-4b25-4ff9-6e7f-37b4da43d235", Name: "Deadlock", Role: "Sentinel"},
		},
		Ceremonies: []Ceremony{
			{ID: "Ace", Name: "ACE"},
			{ID: "TeamAce", Name: "TEAM ACE"},
			{ID: "Clutch", Name: "CLUTCH"},
			{ID: "Flawless", Name: "FLAWLESS"},
			{ID: "Thrifty", Name: "THRIFTY"},
			{ID: "Closer", Name: "CLOSER"},
		},
		GameModes: []GameMode{
			{ID: "competitive", Name: "Competitive"},
			{ID: "unrated", Name: "Unrated"},
			{ID: "swiftplay", Name: "Swiftplay"},
			{ID: "spikerush", Name: "Spike Rush"},
			{ID: "premier", Name: "Premier"},
			{ID: "ggteam", Name: "Escalation"},
			{ID: "hurm", Name: "Team Deathmatch"},
			{ID: "deathmatch", Name: "Deathmatch", Deathmatch: true},
		},
	}

	doc.Tiers = append(doc.Tiers,
		Tier{ID: 0, Name: "Unranked"},
		Tier{ID: 1, Name: "Unused 1"},
		Tier{ID: 2, Name: "Unused 2"},
	)
	id := 3
	for _, div := range divisions {
		for n := 1; n <= 3; n++ {
			doc.Tiers = append(doc.Tiers, Tier{ID: id, Name: fmt.Sprintf("%s %d", div, n), Division: div})
			id++
		}
	}
	doc.Tiers = append(doc.Tiers, Tier{ID: id, Name: "Radiant", Division: "Radiant"})
	return doc
}
