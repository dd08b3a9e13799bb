package repositories

import "github.com/organconnect/organconnect/backend/internal/models"

func reelKey(id int) models.ItemKey { return models.ItemKey{Kind: models.FeedKindReel, ID: id} }
func postKey(i int) models.ItemKey  { return models.ItemKey{Kind: models.FeedKindPost, ID: i} }

var defaultReels = []models.FeedItem{
	{
		Key: reelKey(1), Author: "Dr. Sharma", AuthorImage: "🩺",
		Title:   "Understanding Organ Donation",
		Content: "A quick guide to the organ donation process and its life-saving impact.",
		Image:   "🫀", LikesCount: 1234, CommentsCount: 89, SharesCount: 234,
	},
	{
		Key: reelKey(2), Author: "Priya Kumar", AuthorImage: "👩",
		Title:   "My Transplant Journey",
		Content: "Sharing my story of receiving a second chance at life through organ donation.",
		Image:   "💚", LikesCount: 2341, CommentsCount: 156, SharesCount: 445,
	},
	{
		Key: reelKey(3), Author: "MOHAN Foundation", AuthorImage: "🏥",
		Title:   "Myths About Organ Donation",
		Content: "Busting common misconceptions and spreading awareness.",
		Image:   "💡", LikesCount: 3456, CommentsCount: 234, SharesCount: 678,
	},
	{
		Key: reelKey(4), Author: "Rajesh Patel", AuthorImage: "👨",
		Title:   "Being a Living Donor",
		Content: "My experience donating a kidney to save my brother's life.",
		Image:   "❤️", LikesCount: 4567, CommentsCount: 301, SharesCount: 890,
	},
}

var defaultPosts = []models.FeedItem{
	{
		Key: postKey(0), Author: "Gift Your Organ", AuthorImage: "🎁", Time: "2 hours ago",
		Content: "Every 10 minutes, someone is added to the organ transplant waiting list. Register today and give the gift of life! 💚",
		Image:   "🏥", LikesCount: 567, CommentsCount: 45,
	},
	{
		Key: postKey(1), Author: "Organ India", AuthorImage: "🇮🇳", Time: "5 hours ago",
		Content: "Success story: Thanks to our network, a heart transplant was completed in record time, saving a 35-year-old father of two. #OrganDonation",
		Image:   "❤️‍🩹", LikesCount: 892, CommentsCount: 67, InitiallyLiked: true,
	},
	{
		Key: postKey(2), Author: "Dr. Mehta", AuthorImage: "👨‍⚕️", Time: "1 day ago",
		Content: "Attended an incredible medical seminar on advances in transplant surgery. The future of organ donation is bright! 🌟",
		Image:   "🔬", LikesCount: 445, CommentsCount: 34,
	},
	{
		Key: postKey(3), Author: "Anita Desai", AuthorImage: "👩‍💼", Time: "2 days ago",
		Content: "Honored to volunteer at today's organ donation awareness camp. Met amazing people committed to saving lives! 🙏",
		Image:   "🤝", LikesCount: 678, CommentsCount: 56, InitiallyLiked: true,
	},
}

var defaultEvents = []models.Event{
	{Title: "National Organ Donation Day", Date: "August 13, 2025", Time: "10:00 AM - 4:00 PM", Location: "Pan-India Virtual Event", Organizer: "OrganConnect", Description: "Join us for a nationwide celebration and awareness campaign for organ donation.", Attendees: 1234},
	{Title: "Awareness Walk - Delhi", Date: "September 5, 2025", Time: "7:00 AM - 9:00 AM", Location: "India Gate, New Delhi", Organizer: "Organ India", Description: "Community walk to raise awareness about organ donation in the capital.", Attendees: 456},
	{Title: "Medical Seminar on Transplants", Date: "October 12, 2025", Time: "2:00 PM - 6:00 PM", Location: "AIIMS, Mumbai", Organizer: "MOHAN Foundation", Description: "Educational seminar for medical professionals and interested individuals.", Attendees: 289},
	{Title: "Blood Donation Camp", Date: "November 20, 2025", Time: "9:00 AM - 5:00 PM", Location: "Community Center, Bangalore", Organizer: "Red Cross India", Description: "Special blood donation drive in support of transplant patients.", Attendees: 567},
	{Title: "Family Support Workshop", Date: "December 8, 2025", Time: "3:00 PM - 6:00 PM", Location: "Online Event", Organizer: "OrganConnect", Description: "Support session for families of organ recipients and donors.", Attendees: 123},
	{Title: "Youth Awareness Drive", Date: "January 15, 2026", Time: "11:00 AM - 2:00 PM", Location: "Multiple Cities", Organizer: "Organ India", Description: "Educational program targeting college students and young adults.", Attendees: 890},
}

var defaultFAQs = []models.FAQ{
	{Question: "What is organ donation?", Answer: "Organ donation is the process of surgically removing an organ or tissue from one person (the donor) and placing it into another person (the recipient) whose organ has failed or was injured. Organs that can be donated include kidneys, heart, liver, pancreas, intestines, lungs, skin, bone, bone marrow, and cornea."},
	{Question: "Can I become a living donor?", Answer: "Yes! Living donation is possible for certain organs like kidneys and parts of the liver, lung, intestine, and pancreas. Living donors must be in good health, 18 years or older, and willing to donate. A thorough medical and psychological evaluation is conducted to ensure safety."},
	{Question: "Does organ donation disfigure the body?", Answer: "No. Organ donation is a surgical procedure, and organs are removed with utmost care and respect. The body is not disfigured, and normal funeral arrangements can be made. The donation process doesn't interfere with open-casket funerals."},
	{Question: "Is there an age limit for organ donation?", Answer: "There is no strict age limit. People of all ages can register as organ donors. Medical professionals determine at the time of death whether organs and tissues are suitable for donation based on their condition, not solely on age."},
	{Question: "What is brain death?", Answer: "Brain death is the irreversible loss of all brain function, including the brainstem. It is a legal definition of death. When brain death occurs, organs can be donated if the person is on ventilator support and the family consents."},
	{Question: "Can my family override my decision to donate?", Answer: "While your registration is legally valid, in practice, medical professionals typically seek family consent. This is why it's crucial to discuss your decision with your family to ensure your wishes are honored."},
	{Question: "Are there any costs involved in organ donation?", Answer: "No. There is no cost to the donor's family for organ donation. All costs related to the donation process are borne by the recipient or their insurance. However, the donor's family is responsible for funeral arrangements."},
	{Question: "What are the religious views on organ donation?", Answer: "Most major religions in India support organ donation as an act of charity and compassion. Hinduism, Islam, Christianity, Sikhism, Buddhism, and Jainism all generally permit organ donation. However, individual beliefs may vary, so consult with your religious leader if needed."},
	{Question: "How do I register as an organ donor?", Answer: "You can register through OrganConnect by filling out our secure donor registration form. You'll receive a donor card via email. It's also important to inform your family about your decision and carry your donor card."},
	{Question: "Can I change my mind after registering?", Answer: "Absolutely. You can update or cancel your donor registration at any time through your OrganConnect profile. Your decision is entirely voluntary and reversible."},
}
