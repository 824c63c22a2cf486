package pool

// Фиксированные словари атрибутов. Генерация имен, адресов и брендов
// комбинирует элементы словарей детерминированно, без внешних faker
// зависимостей

var cityNames = []string{
	"Springfield", "Riverton", "Fairview", "Lakewood", "Madison",
	"Georgetown", "Clinton", "Arlington", "Ashland", "Burlington",
	"Clayton", "Dayton", "Franklin", "Greenville", "Kingston",
	"Lexington", "Milton", "Newport", "Oxford", "Salem",
	"Bristol", "Dover", "Hudson", "Jackson", "Manchester",
	"Auburn", "Centerville", "Farmington", "Glendale", "Winchester",
}

var stateAbbrs = []string{
	"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "FL", "GA",
	"HI", "ID", "IL", "IN", "IA", "KS", "KY", "LA", "ME", "MD",
	"MA", "MI", "MN", "MS", "MO", "MT", "NE", "NV", "NH", "NJ",
	"NM", "NY", "NC", "ND", "OH", "OK", "OR", "PA", "RI", "SC",
	"SD", "TN", "TX", "UT", "VT", "VA", "WA", "WV", "WI", "WY",
}

var firstNames = []string{
	"James", "Mary", "Robert", "Patricia", "John", "Jennifer",
	"Michael", "Linda", "David", "Elizabeth", "William", "Barbara",
	"Richard", "Susan", "Joseph", "Jessica", "Thomas", "Sarah",
	"Carlos", "Karen", "Daniel", "Lisa", "Matthew", "Nancy",
	"Anthony", "Betty", "Mark", "Margaret", "Paul", "Sandra",
	"Steven", "Ashley", "Andrew", "Kimberly", "Kenneth", "Emily",
	"Javier", "Donna", "Kevin", "Michelle",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia",
	"Miller", "Davis", "Rodriguez", "Martinez", "Hernandez", "Lopez",
	"Gonzalez", "Wilson", "Anderson", "Thomas", "Taylor", "Moore",
	"Jackson", "Martin", "Lee", "Perez", "Thompson", "White",
	"Harris", "Sanchez", "Clark", "Ramirez", "Lewis", "Robinson",
	"Walker", "Young", "Allen", "King", "Wright", "Scott",
	"Simmons", "Montrose", "Kimble", "Lamb",
}

var streetNames = []string{
	"Maple", "Oak", "Cedar", "Pine", "Elm", "Walnut", "Chestnut",
	"Willow", "Birch", "Spruce", "Main", "Park", "Lake", "Hill",
	"River", "Sunset", "Highland", "Meadow", "Forest", "Garden",
}

var streetSuffixes = []string{"St", "Ave", "Blvd", "Dr", "Ln", "Rd", "Way", "Ct"}

var emailDomains = []string{
	"example.com", "example.org", "example.net", "mail.test", "inbox.test",
}

var companyStems = []string{
	"Summit", "Pioneer", "Cascade", "Beacon", "Harbor", "Sterling",
	"Crestview", "Northwind", "Redwood", "Bluepeak", "Ironwood", "Silverline",
	"Brightway", "Stonebridge", "Clearwater", "Goldleaf", "Evergreen", "Atlas",
	"Horizon", "Vanguard",
}

var companySuffixes = []string{"Inc", "LLC", "Group", "Ltd", "Corp", "and Sons"}

var productAdjectives = []string{
	"Classic", "Premium", "Deluxe", "Essential", "Compact", "Modern",
	"Vintage", "Ultra", "Eco", "Smart", "Pro", "Elite",
	"Signature", "Everyday", "Sleek", "Rugged", "Lightweight", "Luxe",
}
