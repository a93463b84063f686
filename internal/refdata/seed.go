package refdata

// baselineVersion tags the compiled-in seed data. A live deployment reloads
// from Data Dragon at startup and replaces this set.
const baselineVersion = "14.1.1-builtin"

var baselineQueues = []QueueInfo{
	{QueueID: 400, Map: "Summoner's Rift", Description: "Normal Draft"},
	{QueueID: 420, Map: "Summoner's Rift", Description: "Ranked Solo/Duo"},
	{QueueID: 430, Map: "Summoner's Rift", Description: "Normal Blind"},
	{QueueID: 440, Map: "Summoner's Rift", Description: "Ranked Flex"},
	{QueueID: 450, Map: "Howling Abyss", Description: "ARAM"},
	{QueueID: 490, Map: "Summoner's Rift", Description: "Quickplay"},
	{QueueID: 700, Map: "Summoner's Rift", Description: "Clash"},
	{QueueID: 1700, Map: "Rings of Wrath", Description: "Arena"},
	{QueueID: 1710, Map: "Rings of Wrath", Description: "Arena"},
}

var baselineChampions = []ChampionInfo{
	{ID: 103, Name: "Ahri", DamageType: "AP"},
	{ID: 266, Name: "Aatrox", DamageType: "AD"},
	{ID: 84, Name: "Akali", DamageType: "AP"},
	{ID: 22, Name: "Ashe", DamageType: "AD"},
	{ID: 51, Name: "Caitlyn", DamageType: "AD"},
	{ID: 122, Name: "Darius", DamageType: "AD"},
	{ID: 245, Name: "Ekko", DamageType: "AP"},
	{ID: 81, Name: "Ezreal", DamageType: "AD"},
	{ID: 86, Name: "Garen", DamageType: "AD"},
	{ID: 39, Name: "Irelia", DamageType: "AD"},
	{ID: 202, Name: "Jhin", DamageType: "AD"},
	{ID: 222, Name: "Jinx", DamageType: "AD"},
	{ID: 64, Name: "Lee Sin", DamageType: "AD"},
	{ID: 89, Name: "Leona", DamageType: "Tank"},
	{ID: 99, Name: "Lux", DamageType: "AP"},
	{ID: 21, Name: "Miss Fortune", DamageType: "AD"},
	{ID: 25, Name: "Morgana", DamageType: "AP"},
	{ID: 111, Name: "Nautilus", DamageType: "Tank"},
	{ID: 61, Name: "Orianna", DamageType: "AP"},
	{ID: 555, Name: "Pyke", DamageType: "AD"},
	{ID: 92, Name: "Riven", DamageType: "AD"},
	{ID: 235, Name: "Senna", DamageType: "AD"},
	{ID: 147, Name: "Seraphine", DamageType: "AP"},
	{ID: 134, Name: "Syndra", DamageType: "AP"},
	{ID: 91, Name: "Talon", DamageType: "AD"},
	{ID: 17, Name: "Teemo", DamageType: "AP"},
	{ID: 412, Name: "Thresh", DamageType: "Tank"},
	{ID: 67, Name: "Vayne", DamageType: "AD"},
	{ID: 254, Name: "Vi", DamageType: "AD"},
	{ID: 157, Name: "Yasuo", DamageType: "AD"},
	{ID: 238, Name: "Zed", DamageType: "AD"},
	{ID: 143, Name: "Zyra", DamageType: "AP"},
}
